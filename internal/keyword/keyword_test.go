package keyword_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/fanout/internal/keyword"
)

func TestDomains(t *testing.T) {
	tests := map[string]struct {
		words      []string
		maxLen     int
		tld        string
		expDomains []string
		expErr     bool
	}{
		"Go keywords up to 4 characters should be used.": {
			words:      keyword.GoKeywords,
			maxLen:     4,
			expDomains: []string{"case.dev", "chan.dev", "else.dev", "for.dev", "func.dev", "go.dev", "goto.dev", "if.dev", "map.dev", "type.dev", "var.dev"},
		},

		"Words should be lower cased with a custom TLD.": {
			words:      []string{"If", "None", "  "},
			tld:        ".io",
			expDomains: []string{"if.io", "none.io"},
		},

		"No words should return no domains.": {
			words:      nil,
			expDomains: []string{},
		},

		"A negative max length should fail.": {
			words:  []string{"if"},
			maxLen: -1,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := keyword.Domains(test.words, test.maxLen, test.tld)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expDomains, got)
		})
	}
}
