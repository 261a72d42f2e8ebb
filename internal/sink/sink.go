package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/fanout/internal/log"
)

// Sink receives the payload of every successful task.
type Sink interface {
	OnSuccess(ctx context.Context, id string, payload []byte) error
}

//go:generate mockery --case underscore --output sinkmock --outpkg sinkmock --name Sink

// Noop is a sink that ignores all payloads.
const Noop = noop(0)

type noop int

func (noop) OnSuccess(context.Context, string, []byte) error { return nil }

// FileSinkConfig is the configuration of the FileSink.
type FileSinkConfig struct {
	// Dir is the directory where the payloads are saved.
	Dir string
	// Extension is appended to the identity to get the file name (e.g. ".gif").
	Extension string
	Logger    log.Logger
}

func (c *FileSinkConfig) defaults() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "sink.File"})
	return nil
}

// FileSink saves every payload in its own file.
type FileSink struct {
	dir       string
	extension string
	logger    log.Logger
}

// NewFileSink returns a new FileSink, the directory is created if missing.
func NewFileSink(cfg FileSinkConfig) (*FileSink, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", cfg.Dir, err)
	}

	return &FileSink{
		dir:       cfg.Dir,
		extension: cfg.Extension,
		logger:    cfg.Logger,
	}, nil
}

// OnSuccess satisfies Sink interface.
func (s *FileSink) OnSuccess(ctx context.Context, id string, payload []byte) error {
	if id == "" || id != filepath.Base(id) {
		return fmt.Errorf("invalid file name %q", id)
	}

	path := filepath.Join(s.dir, id+s.extension)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	s.logger.Debugf("Saved %d bytes on %s", len(payload), path)
	return nil
}
