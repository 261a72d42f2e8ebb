package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/fanout/internal/app/probe"
	"github.com/slok/fanout/internal/keyword"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/orchestrate"
	"github.com/slok/fanout/internal/printer"
	"github.com/slok/fanout/internal/resolve"
	"github.com/slok/fanout/internal/storage/sqlite"
)

type ProbeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	domains        []string
	fromFile       string
	maxLen         int
	tld            string
	dnsUpstream    string
	maxConcurrency int
	format         string
}

// NewProbeCommand returns the probe command.
func NewProbeCommand(rootCmd *RootCommand, app *kingpin.Application) *ProbeCommand {
	c := &ProbeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("probe", "Check which domains resolve, printing them as they finish. By default probes the Go keyword domains.")
	c.Cmd.Arg("domains", "Domains to probe.").StringsVar(&c.domains)
	c.Cmd.Flag("from-file", "YAML file with the domains to probe.").StringVar(&c.fromFile)
	c.Cmd.Flag("max-len", "Maximum length of the keywords used to generate the default domains.").Default("4").IntVar(&c.maxLen)
	c.Cmd.Flag("tld", "Top level domain used to generate the default domains.").Default(keyword.DefaultTLD).StringVar(&c.tld)
	c.Cmd.Flag("dns-upstream", "Query this DNS server directly instead of using the system resolver (e.g. 1.1.1.1:53).").StringVar(&c.dnsUpstream)
	c.Cmd.Flag("max-concurrency", "Maximum in-flight probes, 0 means unlimited.").Default("0").IntVar(&c.maxConcurrency)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ProbeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProbeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	domains, err := c.targetDomains(ctx)
	if err != nil {
		return err
	}

	var resolver resolve.Resolver
	if c.dnsUpstream != "" {
		resolver, err = resolve.NewDNSResolver(resolve.DNSResolverConfig{
			Upstream: c.dnsUpstream,
			Logger:   logger,
		})
	} else {
		resolver, err = resolve.NewSystemResolver(resolve.SystemResolverConfig{Logger: logger})
	}
	if err != nil {
		return fmt.Errorf("could not create resolver: %w", err)
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

	svc, err := probe.NewService(probe.ServiceConfig{
		Resolver:       resolver,
		Repository:     repo,
		MaxConcurrency: c.maxConcurrency,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := newPrinter(c.format, c.rootCmd.Stdout)
	resp, err := svc.Run(ctx, probe.Request{
		Domains: domains,
		OnResult: func(res orchestrate.Result[model.Probe]) {
			var err error
			if res.OK() {
				err = p.PrintProbe(res.Value)
			} else {
				err = p.PrintProbeError(res.ID, res.Err)
			}
			if err != nil {
				logger.Warningf("could not print probe result: %s", err)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("could not probe domains: %w", err)
	}

	err = p.PrintProbeSummary(printer.ProbeSummary{
		RunID:    resp.RunID,
		Found:    resp.Found,
		NotFound: resp.NotFound,
		Failed:   resp.Failed,
		Elapsed:  resp.Elapsed,
	})
	if err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}

	return nil
}

func (c ProbeCommand) targetDomains(ctx context.Context) ([]string, error) {
	domains := c.domains
	if c.fromFile != "" {
		ids, err := loadIdentities(ctx, c.fromFile)
		if err != nil {
			return nil, err
		}
		domains = append(domains, ids...)
	}

	if len(domains) > 0 {
		return domains, nil
	}

	domains, err := keyword.Domains(keyword.GoKeywords, c.maxLen, c.tld)
	if err != nil {
		return nil, fmt.Errorf("could not generate keyword domains: %w", err)
	}

	return domains, nil
}
