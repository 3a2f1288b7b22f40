package server

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
)

const pingTimeout = 5 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

type statusSetter interface {
	SetServing(serving bool)
}

// storeWatcher pings the database on an interval. Migrations are applied on
// the first successful ping and retried until they succeed; the health
// status is serving only while both hold.
type storeWatcher struct {
	db       pinger
	migrate  func(ctx context.Context) error
	health   statusSetter
	interval time.Duration
	logger   logging.Logger

	migrated bool
	ready    bool
}

func (w *storeWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *storeWatcher) tick(ctx context.Context) {
	ok := w.check(ctx)
	if ok == w.ready {
		return
	}

	w.ready = ok
	w.health.SetServing(ok)

	if ok {
		w.logger.Info(ctx, "store is ready")
	} else {
		w.logger.Warn(ctx, "store is unavailable")
	}
}

func (w *storeWatcher) check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := w.db.PingContext(pingCtx); err != nil {
		w.logger.Warn(ctx, "db ping failed", "error", err)
		return false
	}

	if !w.migrated {
		if err := w.migrate(ctx); err != nil {
			w.logger.Error(ctx, "migrations failed", "error", err)
			return false
		}
		w.migrated = true
		w.logger.Info(ctx, "migrations applied")
	}

	return true
}
