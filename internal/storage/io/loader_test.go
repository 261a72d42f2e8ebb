package io

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityListYAMLRepositoryGetIdentities(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expIDs []string
		expErr bool
	}{
		"A valid list should load the identities in file order.": {
			fs: fstest.MapFS{
				"codes.yaml": &fstest.MapFile{
					Data: []byte(`identities:
  - CN
  - IN
  - US
`),
				},
			},
			path:   "codes.yaml",
			expIDs: []string{"CN", "IN", "US"},
		},

		"Blank and duplicated identities should be dropped.": {
			fs: fstest.MapFS{
				"domains.yaml": &fstest.MapFile{
					Data: []byte(`identities:
  - go.dev
  - "  "
  - " if.dev "
  - go.dev
`),
				},
			},
			path:   "domains.yaml",
			expIDs: []string{"go.dev", "if.dev"},
		},

		"An empty list should fail.": {
			fs: fstest.MapFS{
				"empty.yaml": &fstest.MapFile{Data: []byte("identities: []\n")},
			},
			path:   "empty.yaml",
			expErr: true,
		},

		"A missing file should fail.": {
			fs:     fstest.MapFS{},
			path:   "missing.yaml",
			expErr: true,
		},

		"Invalid YAML should fail.": {
			fs: fstest.MapFS{
				"bad.yaml": &fstest.MapFile{Data: []byte("identities: [go.dev\n")},
			},
			path:   "bad.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewIdentityListYAMLRepository(test.fs)
			gotIDs, err := repo.GetIdentities(context.Background(), test.path)

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expIDs, gotIDs)
		})
	}
}

func TestIdentityListYAMLRepositoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewIdentityListYAMLRepository(fstest.MapFS{
		"codes.yaml": &fstest.MapFile{Data: []byte("identities: [CN]\n")},
	})
	_, err := repo.GetIdentities(ctx, "codes.yaml")
	assert.ErrorIs(t, err, context.Canceled)
}
