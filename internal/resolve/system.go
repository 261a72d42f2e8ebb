package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/slok/fanout/internal/log"
)

// SystemResolverConfig is the configuration for the SystemResolver.
type SystemResolverConfig struct {
	// Resolver is the Go resolver used for lookups, by default the system one.
	Resolver *net.Resolver
	Logger   log.Logger
}

func (c *SystemResolverConfig) defaults() error {
	if c.Resolver == nil {
		c.Resolver = net.DefaultResolver
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "resolve.SystemResolver"})
	return nil
}

// SystemResolver resolves names with the host resolution (hosts file, DNS
// configuration...), the same way getaddrinfo does.
type SystemResolver struct {
	resolver *net.Resolver
	logger   log.Logger
}

// NewSystemResolver returns a new SystemResolver.
func NewSystemResolver(cfg SystemResolverConfig) (*SystemResolver, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &SystemResolver{resolver: cfg.Resolver, logger: cfg.Logger}, nil
}

// Resolve satisfies Resolver interface. Names that don't exist are not an
// error, failures of the resolution itself (timeouts, unreachable or failing
// nameservers) are.
func (r *SystemResolver) Resolve(ctx context.Context, name string) (bool, error) {
	addrs, err := r.resolver.LookupHost(ctx, name)
	if err == nil {
		r.logger.Debugf("%s resolved to %v", name, addrs)
		return true, nil
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		r.logger.Debugf("%s could not be resolved: %s", name, dnsErr)
		return false, nil
	}

	return false, fmt.Errorf("could not lookup %s: %w", name, err)
}
