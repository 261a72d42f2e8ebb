package lib

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/fanout/internal/conventions"
	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/resolve"
	"github.com/slok/fanout/internal/storage"
	"github.com/slok/fanout/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.fanout/fanout.db for the run history and the system resolver.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.fanout/fanout.db.
	DBPath string

	// DataDir is the base directory for fanout data.
	// Default: ~/.fanout.
	DataDir string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Resolver is used by the probes.
	// Default: the system resolver, or a DNS resolver if DNSUpstream is set.
	Resolver Resolver

	// DNSUpstream makes the probes query this DNS server directly (e.g. "1.1.1.1:53").
	DNSUpstream string

	// BaseURL is the server of the flag images.
	// Default: https://www.fluentpython.com/data/flags.
	BaseURL string

	// HTTPTimeout is the timeout of every download.
	// Default: 6.1s.
	HTTPTimeout time.Duration

	// MaxConcurrency limits the in-flight tasks of a run, 0 means unlimited.
	MaxConcurrency int
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home := homedir.HomeDir()
		if home == "" {
			return fmt.Errorf("could not get user home dir")
		}
		c.DataDir = conventions.DefaultDataDirPath(home)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency can't be negative")
	}

	if c.Resolver == nil {
		var err error
		if c.DNSUpstream != "" {
			c.Resolver, err = resolve.NewDNSResolver(resolve.DNSResolverConfig{Upstream: c.DNSUpstream, Logger: c.Logger})
		} else {
			c.Resolver, err = resolve.NewSystemResolver(resolve.SystemResolverConfig{Logger: c.Logger})
		}
		if err != nil {
			return fmt.Errorf("could not create resolver: %w", err)
		}
	}

	return nil
}

// Client is the main SDK entry point.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo           storage.RunRepository
	logger         log.Logger
	resolver       Resolver
	baseURL        string
	httpTimeout    time.Duration
	maxConcurrency int
	closeFn        func() error
}

// New creates a new SDK client backed by a SQLite database.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	return &Client{
		repo:           repo,
		logger:         cfg.Logger,
		resolver:       cfg.Resolver,
		baseURL:        cfg.BaseURL,
		httpTimeout:    cfg.HTTPTimeout,
		maxConcurrency: cfg.MaxConcurrency,
		closeFn:        repo.Close,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
