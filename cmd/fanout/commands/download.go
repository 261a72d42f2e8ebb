package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/fanout/internal/app/download"
	"github.com/slok/fanout/internal/conventions"
	"github.com/slok/fanout/internal/fetch"
	"github.com/slok/fanout/internal/sink"
	"github.com/slok/fanout/internal/storage/sqlite"
)

type DownloadCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	codes            []string
	fromFile         string
	destDir          string
	baseURL          string
	maxConcurrency   int
	timeout          time.Duration
	disableRedirects bool
	format           string
}

// NewDownloadCommand returns the download command.
func NewDownloadCommand(rootCmd *RootCommand, app *kingpin.Application) *DownloadCommand {
	c := &DownloadCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("download", "Download country flags concurrently, aborting on the first failure. By default downloads the 20 most populous countries.")
	c.Cmd.Arg("codes", "Country codes to download.").StringsVar(&c.codes)
	c.Cmd.Flag("from-file", "YAML file with the country codes to download.").StringVar(&c.fromFile)
	c.Cmd.Flag("dest-dir", "Directory where the flags are saved.").Default(conventions.DownloadsDir).StringVar(&c.destDir)
	c.Cmd.Flag("base-url", "Server of the flag images.").Default(download.DefaultBaseURL).StringVar(&c.baseURL)
	c.Cmd.Flag("max-concurrency", "Maximum in-flight downloads, 0 means unlimited.").Default("0").IntVar(&c.maxConcurrency)
	c.Cmd.Flag("timeout", "Timeout of every download.").Default(fetch.DefaultTimeout.String()).DurationVar(&c.timeout)
	c.Cmd.Flag("no-follow-redirects", "Fail on HTTP redirects instead of following them.").BoolVar(&c.disableRedirects)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c DownloadCommand) Name() string { return c.Cmd.FullCommand() }

func (c DownloadCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	codes := c.codes
	if c.fromFile != "" {
		ids, err := loadIdentities(ctx, c.fromFile)
		if err != nil {
			return err
		}
		codes = append(codes, ids...)
	}

	fileSink, err := sink.NewFileSink(sink.FileSinkConfig{
		Dir:       c.destDir,
		Extension: conventions.FlagFileExtension,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create sink: %w", err)
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := download.NewService(download.ServiceConfig{
		Sink:             fileSink,
		Repository:       repo,
		BaseURL:          c.baseURL,
		MaxConcurrency:   c.maxConcurrency,
		Timeout:          c.timeout,
		DisableRedirects: c.disableRedirects,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := newPrinter(c.format, c.rootCmd.Stdout)
	resp, err := svc.Run(ctx, download.Request{
		CountryCodes: codes,
		OnDownloaded: func(cc string) {
			if err := p.PrintDownloadMarker(cc); err != nil {
				logger.Warningf("could not print download marker: %s", err)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("could not download flags: %w", err)
	}

	if err := p.PrintDownloadSummary(resp.Downloads, resp.Elapsed); err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}

	return nil
}
