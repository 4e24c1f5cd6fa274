package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartSoftDeleteCleaner purges users that were soft-deleted more than
// retention ago, once per interval, until ctx is cancelled. The returned
// channel is closed when the cleaner goroutine has exited.
func StartSoftDeleteCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM users
                     WHERE deleted_at IS NOT NULL
                       AND deleted_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean soft-deleted users", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned soft-deleted users", zap.Int64("removed", rows))
				}
			}
		}
	}()
	return done
}
