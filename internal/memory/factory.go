package memory

import (
	"context"
	"strings"
)

// NewPersister creates a postgres-backed persister when configured,
// otherwise the single-file JSON persister.
func NewPersister(ctx context.Context, databaseURL, memoryFile string) (Persister, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFilePersister(memoryFile), nil
	}
	return NewPostgresPersister(ctx, databaseURL)
}
