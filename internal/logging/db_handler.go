package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dbBatchSize = 50

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	*dbSink
	attrs []slog.Attr
	group string
}

type dbSink struct {
	db       *gorm.DB
	fallback *slog.Logger
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopped  sync.WaitGroup
}

func NewDBHandler(db *gorm.DB, interval time.Duration) *DBHandler {
	sink := &dbSink{
		db:       db,
		fallback: slog.New(slog.NewJSONHandler(os.Stderr, nil)),
		buffer:   make([]models.SystemLog, 0, dbBatchSize),
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	sink.stopped.Add(1)
	go sink.flushLoop()
	return &DBHandler{dbSink: sink}
}

func (s *dbSink) flushLoop() {
	defer s.stopped.Done()
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *dbSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, dbBatchSize)
	s.mu.Unlock()

	// failures go to stderr only; logging them through slog would feed this handler again
	if err := s.db.CreateInBatches(batch, dbBatchSize).Error; err != nil {
		s.fallback.Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *DBHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
	h.stopped.Wait()
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			entry.LatencyMs = latencyMs(a.Value)
		default:
			key := a.Key
			if h.group != "" {
				key = h.group + "." + key
			}
			extra[key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= dbBatchSize
	h.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func latencyMs(v slog.Value) int {
	switch v.Kind() {
	case slog.KindFloat64:
		return int(math.Round(v.Float64()))
	case slog.KindInt64:
		return int(v.Int64())
	case slog.KindDuration:
		return int(v.Duration().Milliseconds())
	}
	return 0
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{dbSink: h.dbSink, attrs: merged, group: h.group}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &DBHandler{dbSink: h.dbSink, attrs: h.attrs, group: group}
}
