package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/fanout/internal/model"
)

func validRun() model.Run {
	return model.Run{
		ID:        "01JB8Z7Q0000000000000000",
		Kind:      model.RunKindDownload,
		Status:    model.RunStatusSucceeded,
		Total:     20,
		Succeeded: 20,
		StartedAt: time.Now().UTC(),
		Duration:  time.Second,
	}
}

func TestRunValidate(t *testing.T) {
	tests := map[string]struct {
		run    func() model.Run
		expErr bool
	}{
		"A valid run should not fail.": {
			run: validRun,
		},

		"A run without ID should fail.": {
			run: func() model.Run {
				r := validRun()
				r.ID = ""
				return r
			},
			expErr: true,
		},

		"A run with an unknown kind should fail.": {
			run: func() model.Run {
				r := validRun()
				r.Kind = "sleep"
				return r
			},
			expErr: true,
		},

		"A run with an unknown status should fail.": {
			run: func() model.Run {
				r := validRun()
				r.Status = "unknown"
				return r
			},
			expErr: true,
		},

		"A run with more results than tasks should fail.": {
			run: func() model.Run {
				r := validRun()
				r.Failed = 1
				return r
			},
			expErr: true,
		},

		"A run without start time should fail.": {
			run: func() model.Run {
				r := validRun()
				r.StartedAt = time.Time{}
				return r
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.run().Validate()
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeCountryCode(t *testing.T) {
	tests := map[string]struct {
		cc     string
		expCC  string
		expErr bool
	}{
		"A lower case code should be normalized.": {
			cc:    "cn",
			expCC: "CN",
		},
		"A code with spaces should be trimmed.": {
			cc:    " br ",
			expCC: "BR",
		},
		"A long code should fail.": {
			cc:     "USA",
			expErr: true,
		},
		"A numeric code should fail.": {
			cc:     "1A",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := model.NormalizeCountryCode(test.cc)
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expCC, got)
		})
	}
}

func TestValidateDomain(t *testing.T) {
	assert.NoError(t, model.ValidateDomain("if.dev"))
	assert.ErrorIs(t, model.ValidateDomain(""), model.ErrNotValid)
	assert.ErrorIs(t, model.ValidateDomain("bad domain.dev"), model.ErrNotValid)
}
