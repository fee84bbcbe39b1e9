package main

import (
	"context"

	"github.com/sells-group/winerecon/internal/store"
)

// initStore opens the configured run store. It returns nil when the store
// is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}
