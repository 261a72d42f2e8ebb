package resolve

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/slok/fanout/internal/log"
)

// DNSClient is the interface for making DNS queries to upstream resolvers.
type DNSClient interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// DNSResolverConfig is the configuration for the DNSResolver.
type DNSResolverConfig struct {
	// Upstream is the DNS server address (e.g. "8.8.8.8:53").
	Upstream string
	// Client is the DNS client used for the queries.
	Client DNSClient
	Logger log.Logger
}

func (c *DNSResolverConfig) defaults() error {
	if c.Upstream == "" {
		c.Upstream = "8.8.8.8:53"
	}
	if _, _, err := net.SplitHostPort(c.Upstream); err != nil {
		c.Upstream = net.JoinHostPort(c.Upstream, "53")
	}
	if c.Client == nil {
		c.Client = &dns.Client{Timeout: 5 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "resolve.DNSResolver"})
	return nil
}

// DNSResolver resolves names querying a DNS server directly, bypassing the host
// resolution configuration.
type DNSResolver struct {
	upstream string
	client   DNSClient
	logger   log.Logger
}

// NewDNSResolver returns a new DNSResolver.
func NewDNSResolver(cfg DNSResolverConfig) (*DNSResolver, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &DNSResolver{
		upstream: cfg.Upstream,
		client:   cfg.Client,
		logger:   cfg.Logger,
	}, nil
}

// Resolve satisfies Resolver interface. A name resolves if it has an A or AAAA
// record. NXDOMAIN and empty answers mean the name doesn't exist, query
// failures and other response codes are errors.
func (r *DNSResolver) Resolve(ctx context.Context, name string) (bool, error) {
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(name), qtype)

		resp, rtt, err := r.client.ExchangeContext(ctx, m, r.upstream)
		if err != nil {
			return false, fmt.Errorf("could not query %s %s: %w", dns.TypeToString[qtype], name, err)
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			if hasAddress(resp) {
				r.logger.Debugf("%s %s resolved in %s", dns.TypeToString[qtype], name, rtt)
				return true, nil
			}
		case dns.RcodeNameError:
			r.logger.Debugf("%s doesn't exist", name)
			return false, nil
		default:
			return false, fmt.Errorf("upstream answered %s for %s %s", dns.RcodeToString[resp.Rcode], dns.TypeToString[qtype], name)
		}
	}

	return false, nil
}

func hasAddress(m *dns.Msg) bool {
	for _, rr := range m.Answer {
		switch rr.(type) {
		case *dns.A, *dns.AAAA:
			return true
		}
	}
	return false
}
