package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeTargetDomains(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "domains.yaml")
	require.NoError(t, os.WriteFile(listPath, []byte("identities:\n  - zoo.dev\n  - if.dev\n"), 0644))

	tests := map[string]struct {
		cmd        ProbeCommand
		expDomains []string
		expErr     bool
	}{
		"Explicit domains should be used as they are.": {
			cmd:        ProbeCommand{domains: []string{"go.dev"}, maxLen: 4, tld: "dev"},
			expDomains: []string{"go.dev"},
		},

		"Domains from a file should be appended to the explicit ones.": {
			cmd:        ProbeCommand{domains: []string{"go.dev"}, fromFile: listPath, maxLen: 4, tld: "dev"},
			expDomains: []string{"go.dev", "zoo.dev", "if.dev"},
		},

		"Without domains the keyword domains should be generated.": {
			cmd:        ProbeCommand{maxLen: 2, tld: "dev"},
			expDomains: []string{"go.dev", "if.dev"},
		},

		"A missing file should fail.": {
			cmd:    ProbeCommand{fromFile: filepath.Join(dir, "missing.yaml"), maxLen: 4, tld: "dev"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			gotDomains, err := test.cmd.targetDomains(context.Background())

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expDomains, gotDomains)
		})
	}
}

func TestDefaultDBPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultDBPath(), filepath.Join(".fanout", "fanout.db")))
}
