package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"darkbin/internal/featureflags"
	"darkbin/internal/models"
	"darkbin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pasteRepoStub implements the two repository methods the exporter touches.
type pasteRepoStub struct {
	allFn   func(context.Context) ([]*models.Paste, error)
	sweepFn func(context.Context, string) (int64, error)
}

func (s *pasteRepoStub) All(ctx context.Context) ([]*models.Paste, error) { return s.allFn(ctx) }
func (s *pasteRepoStub) SweepExpired(ctx context.Context, cutoff string) (int64, error) {
	return s.sweepFn(ctx, cutoff)
}
func (s *pasteRepoStub) Create(context.Context, *models.Paste) error { return nil }
func (s *pasteRepoStub) GetByID(context.Context, string) (*models.Paste, error) {
	return nil, nil
}
func (s *pasteRepoStub) Peek(context.Context, string) (*models.Paste, error) { return nil, nil }
func (s *pasteRepoStub) List(context.Context, repository.PasteFilter, string) ([]*models.Paste, error) {
	return nil, nil
}
func (s *pasteRepoStub) Delete(context.Context, string) error { return nil }
func (s *pasteRepoStub) SetPinned(context.Context, string, bool, models.Role) (*models.Paste, error) {
	return nil, nil
}
func (s *pasteRepoStub) ToggleLike(context.Context, string, string) (bool, int64, error) {
	return false, 0, nil
}

func TestExportOnce_WritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	repo := &pasteRepoStub{
		allFn: func(context.Context) ([]*models.Paste, error) {
			return []*models.Paste{
				{ID: "a", Content: "alpha", Date: "2026-08-29T10:00:00Z"},
				{ID: "b", Content: "beta", Date: "2026-08-29T11:00:00Z"},
			}, nil
		},
		sweepFn: func(context.Context, string) (int64, error) { return 0, nil },
	}

	e := NewExporter(repo, dir, 24, time.Hour, 24*time.Hour, featureflags.NewManager(""))

	path, err := e.ExportOnce(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var pastes []models.Paste
	require.NoError(t, json.Unmarshal(data, &pastes))
	require.Len(t, pastes, 2)
	assert.Equal(t, "a", pastes[0].ID)
}

func TestExportOnce_PrunesOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	repo := &pasteRepoStub{
		allFn:   func(context.Context) ([]*models.Paste, error) { return nil, nil },
		sweepFn: func(context.Context, string) (int64, error) { return 0, nil },
	}

	e := NewExporter(repo, dir, 3, time.Hour, 24*time.Hour, featureflags.NewManager(""))

	// Seed old snapshots with staggered mtimes.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, filePrefix+string(rune('a'+i))+".json")
		require.NoError(t, os.WriteFile(name, []byte("[]"), 0o644))
		old := time.Now().Add(-time.Duration(10-i) * time.Minute)
		require.NoError(t, os.Chtimes(name, old, old))
	}

	_, err := e.ExportOnce(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "retention keeps only the newest snapshots")
}

func TestSweep_UsesGraceWindow(t *testing.T) {
	var gotCutoff string
	repo := &pasteRepoStub{
		allFn: func(context.Context) ([]*models.Paste, error) { return nil, nil },
		sweepFn: func(_ context.Context, cutoff string) (int64, error) {
			gotCutoff = cutoff
			return 2, nil
		},
	}

	e := NewExporter(repo, t.TempDir(), 1, time.Hour, 24*time.Hour, featureflags.NewManager(""))

	swept, err := e.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	cutoff, err := time.Parse(time.RFC3339, gotCutoff)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(-24*time.Hour), cutoff, time.Minute)
}
