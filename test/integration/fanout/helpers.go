package fanout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/fanout/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "fanout"
	}

	// go test changes the CWD to the test package directory, relative paths are not reliable.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("FANOUT_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("fanout binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "FANOUT_INTEGRATION"
		envBinary     = "FANOUT_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Run executes a fanout command against the given database.
func Run(ctx context.Context, config Config, dbPath, cmdArgs string) (stdout, stderr []byte, err error) {
	return testutils.RunFanout(ctx, []string{"FANOUT_DB_PATH=" + dbPath}, config.Binary, cmdArgs, true)
}
