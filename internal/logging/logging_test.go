package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBHandlerPersistsErrors(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)

	h := logging.NewDBHandler(db, time.Hour)
	var stdout bytes.Buffer
	logger := slog.New(logging.NewMultiHandler(slog.NewJSONHandler(&stdout, nil), h)).
		With("request_id", "req-1")

	logger.Info("form submitted", "action", "form_submit")
	logger.Error("save failed", "user_id", "u-1", "action", "save_answers", "error", "boom", "latency_ms", 12.6, "question_count", 3)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	got := logs[0]
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "save failed", got.Message)
	assert.Equal(t, "req-1", got.RequestID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)
	assert.Equal(t, "save_answers", got.Action)
	assert.Equal(t, "boom", got.Error)
	assert.Equal(t, 13, got.LatencyMs)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(got.Extra, &extra))
	assert.EqualValues(t, 3, extra["question_count"])

	assert.Equal(t, 2, bytes.Count(stdout.Bytes(), []byte("\n")))
}

func TestPurgeOlderThan(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)

	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: time.Now().AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: time.Now(), Level: "ERROR", Message: "new"},
	}).Error)

	deleted, err := logging.PurgeOlderThan(db, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	db.Find(&remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Message)
}

func TestMultiHandlerEnabled(t *testing.T) {
	quiet := slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	m := logging.NewMultiHandler(quiet)
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
}
