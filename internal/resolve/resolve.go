package resolve

import "context"

// Resolver knows how to check if a name can be resolved.
type Resolver interface {
	// Resolve returns true if the name resolves and false if it doesn't exist.
	// A name that doesn't exist is not an error, an error means the resolution
	// itself could not be done.
	Resolve(ctx context.Context, name string) (bool, error)
}

//go:generate mockery --case underscore --output resolvemock --outpkg resolvemock --name Resolver

// ResolverFunc is a helper to use functions as Resolvers.
type ResolverFunc func(ctx context.Context, name string) (bool, error)

// Resolve satisfies Resolver interface.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}
