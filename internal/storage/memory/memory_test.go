package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/storage"
	"github.com/slok/fanout/internal/storage/memory"
)

func runFixture(id string, kind model.RunKind, startedAt time.Time) model.Run {
	return model.Run{
		ID:        id,
		Kind:      kind,
		Status:    model.RunStatusSucceeded,
		Total:     3,
		Succeeded: 3,
		StartedAt: startedAt,
		Duration:  150 * time.Millisecond,
	}
}

func TestRepositoryRuns(t *testing.T) {
	t0 := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		runs   []model.Run
		opts   storage.ListRunsOpts
		expIDs []string
		expErr bool
	}{
		"Listing runs should return them newest first.": {
			runs: []model.Run{
				runFixture("r1", model.RunKindProbe, t0),
				runFixture("r3", model.RunKindDownload, t0.Add(2*time.Minute)),
				runFixture("r2", model.RunKindProbe, t0.Add(time.Minute)),
			},
			expIDs: []string{"r3", "r2", "r1"},
		},

		"Listing runs by kind should filter them.": {
			runs: []model.Run{
				runFixture("r1", model.RunKindProbe, t0),
				runFixture("r2", model.RunKindDownload, t0.Add(time.Minute)),
				runFixture("r3", model.RunKindProbe, t0.Add(2*time.Minute)),
			},
			opts:   storage.ListRunsOpts{Kind: model.RunKindProbe},
			expIDs: []string{"r3", "r1"},
		},

		"Listing runs with a limit should return the newest ones.": {
			runs: []model.Run{
				runFixture("r1", model.RunKindProbe, t0),
				runFixture("r2", model.RunKindDownload, t0.Add(time.Minute)),
				runFixture("r3", model.RunKindProbe, t0.Add(2*time.Minute)),
			},
			opts:   storage.ListRunsOpts{Limit: 1},
			expIDs: []string{"r3"},
		},

		"Creating a run twice should fail.": {
			runs: []model.Run{
				runFixture("r1", model.RunKindProbe, t0),
				runFixture("r1", model.RunKindProbe, t0),
			},
			expErr: true,
		},

		"Creating an invalid run should fail.": {
			runs: []model.Run{
				runFixture("", model.RunKindProbe, t0),
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
			require.NoError(err)

			ctx := context.Background()
			var createErr error
			for _, r := range test.runs {
				if err := repo.CreateRun(ctx, r); err != nil {
					createErr = err
				}
			}
			if test.expErr {
				assert.Error(createErr)
				return
			}
			require.NoError(createErr)

			runs, err := repo.ListRuns(ctx, test.opts)
			require.NoError(err)

			gotIDs := []string{}
			for _, r := range runs {
				gotIDs = append(gotIDs, r.ID)
			}
			assert.Equal(test.expIDs, gotIDs)
		})
	}
}

func TestRepositoryGetRun(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	ctx := context.Background()
	exp := runFixture("r1", model.RunKindDownload, time.Now().UTC())
	require.NoError(t, repo.CreateRun(ctx, exp))

	got, err := repo.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, exp, *got)

	_, err = repo.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
