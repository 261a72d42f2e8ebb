package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/storage"
	"github.com/slok/fanout/internal/storage/sqlite"
)

func runFixture(id string, kind model.RunKind, startedAt time.Time) model.Run {
	return model.Run{
		ID:        id,
		Kind:      kind,
		Status:    model.RunStatusFailed,
		Total:     5,
		Succeeded: 0,
		Failed:    1,
		Error:     `task "FR" failed: fetching https://example.com/fr/fr.gif: unexpected status code 404`,
		StartedAt: startedAt,
		Duration:  1500 * time.Millisecond,
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryCreateAndGetRun(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	repo := newRepo(t)
	ctx := context.Background()

	exp := runFixture("01JB8Z7Q0000000000000001", model.RunKindDownload, time.Date(2026, 10, 19, 10, 0, 0, 123, time.UTC))
	require.NoError(repo.CreateRun(ctx, exp))

	got, err := repo.GetRun(ctx, exp.ID)
	require.NoError(err)
	assert.Equal(exp, *got)

	err = repo.CreateRun(ctx, exp)
	assert.ErrorIs(err, model.ErrAlreadyExists)

	_, err = repo.GetRun(ctx, "missing")
	assert.ErrorIs(err, model.ErrNotFound)

	err = repo.CreateRun(ctx, model.Run{})
	assert.ErrorIs(err, model.ErrNotValid)
}

func TestRepositoryListRuns(t *testing.T) {
	t0 := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		opts   storage.ListRunsOpts
		expIDs []string
	}{
		"Listing all runs should return them newest first.": {
			expIDs: []string{"r3", "r2", "r1"},
		},

		"Listing runs by kind should filter them.": {
			opts:   storage.ListRunsOpts{Kind: model.RunKindProbe},
			expIDs: []string{"r3", "r1"},
		},

		"Listing runs with a limit should return the newest ones.": {
			opts:   storage.ListRunsOpts{Limit: 2},
			expIDs: []string{"r3", "r2"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			repo := newRepo(t)
			ctx := context.Background()
			require.NoError(repo.CreateRun(ctx, runFixture("r1", model.RunKindProbe, t0)))
			require.NoError(repo.CreateRun(ctx, runFixture("r2", model.RunKindDownload, t0.Add(time.Minute))))
			require.NoError(repo.CreateRun(ctx, runFixture("r3", model.RunKindProbe, t0.Add(2*time.Minute))))

			runs, err := repo.ListRuns(ctx, test.opts)
			require.NoError(err)

			gotIDs := []string{}
			for _, r := range runs {
				gotIDs = append(gotIDs, r.ID)
			}
			assert.Equal(t, test.expIDs, gotIDs)
		})
	}
}
