package transcript

import (
	"context"
	"strings"
	"time"
)

// NewStore creates a postgres-backed store when DATABASE_URL is configured,
// otherwise the in-memory one. Idle eviction applies to the in-memory
// backend only; postgres rows are kept until the session is reset or deleted.
func NewStore(ctx context.Context, databaseURL string, idleTimeout time.Duration) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(idleTimeout), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
