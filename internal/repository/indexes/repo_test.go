package indexes

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type mockLister struct {
	names []string
	err   error
}

func (m *mockLister) ListIndexes(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func TestResolveLatest_PicksMostRecent(t *testing.T) {
	repo := New(&mockLister{names: []string{
		"steam_games-2024.01.01",
		"steam_games-2024.03.15",
		"steam_games-2023.12.31",
		"other_index-2025.01.01",
	}}, zap.NewNop())

	got := repo.ResolveLatest(context.Background(), "steam_games-*")
	if got != "steam_games-2024.03.15" {
		t.Errorf("expected the newest partition, got %q", got)
	}
}

func TestResolveLatest_ListFailureFallsBack(t *testing.T) {
	repo := New(&mockLister{err: errors.New("store down")}, zap.NewNop())

	got := repo.ResolveLatest(context.Background(), "steam_games-*")
	if got != "steam_games-*" {
		t.Errorf("expected the raw pattern on failure, got %q", got)
	}
}

func TestResolveLatest_NoMatchFallsBack(t *testing.T) {
	repo := New(&mockLister{names: []string{"unrelated-2024.01.01"}}, zap.NewNop())

	got := repo.ResolveLatest(context.Background(), "steam_games-*")
	if got != "steam_games-*" {
		t.Errorf("expected the raw pattern when nothing matches, got %q", got)
	}
}

func TestResolveLatest_ExactNameWithoutWildcard(t *testing.T) {
	repo := New(&mockLister{names: []string{"steam_games-2024.03.15"}}, zap.NewNop())

	got := repo.ResolveLatest(context.Background(), "steam_games-2024.03.15")
	if got != "steam_games-2024.03.15" {
		t.Errorf("expected the exact index, got %q", got)
	}
}
