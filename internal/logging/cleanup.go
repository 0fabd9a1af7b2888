package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeOlderThan deletes system logs older than retentionDays.
func PurgeOlderThan(db *gorm.DB, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs a daily goroutine that applies the retention window.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	if retentionDays <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeOlderThan(db, retentionDays)
				if err != nil {
					slog.Error("log cleanup failed", "error", err, "action", "log_cleanup")
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
