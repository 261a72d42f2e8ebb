package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/fanout/internal/conventions"
)

func TestPaths(t *testing.T) {
	dataDir := conventions.DefaultDataDirPath("/home/gopher")

	assert.Equal(t, "/home/gopher/.fanout", dataDir)
	assert.Equal(t, "/home/gopher/.fanout/fanout.db", conventions.DBPath(dataDir))
}
