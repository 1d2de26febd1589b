package indexes

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// lister is the consumer interface for index discovery (ISP).
type lister interface {
	ListIndexes(ctx context.Context) ([]string, error)
}

// Repo resolves wildcard index patterns against the live store.
type Repo struct {
	store  lister
	logger *zap.Logger
}

// New creates an index resolver.
func New(store lister, logger *zap.Logger) *Repo {
	return &Repo{store: store, logger: logger}
}

// ResolveLatest resolves a prefix pattern like "steam_games-*" to the most
// recent concrete index. Date-partitioned names sort chronologically, so the
// lexicographically greatest match wins. On listing failure or zero matches
// the raw pattern is returned unchanged and the underlying query engine
// reports the real error. Read-only and idempotent.
func (r *Repo) ResolveLatest(ctx context.Context, pattern string) string {
	prefix, _, _ := strings.Cut(pattern, "*")

	names, err := r.store.ListIndexes(ctx)
	if err != nil {
		r.logger.Warn("Failed to list indexes, falling back to raw pattern",
			zap.String("pattern", pattern), zap.Error(err))
		return pattern
	}

	var latest string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && name > latest {
			latest = name
		}
	}
	if latest == "" {
		r.logger.Warn("No index matches pattern, falling back to raw pattern",
			zap.String("pattern", pattern))
		return pattern
	}

	return latest
}
