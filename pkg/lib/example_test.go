package lib_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/fanout/pkg/lib"
)

// This example shows how to probe domains with a custom resolver.
func Example_probe() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "fanout-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	registered := map[string]bool{"go.dev": true}
	client, err := lib.New(ctx, lib.Config{
		DBPath: filepath.Join(dir, "fanout.db"),
		Resolver: lib.ResolverFunc(func(ctx context.Context, name string) (bool, error) {
			return registered[name], nil
		}),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	summary, err := client.ProbeDomains(ctx, []string{"go.dev", "zoo.dev"}, nil)
	if err != nil {
		panic(err)
	}

	fmt.Printf("found: %d, not found: %d\n", summary.Found, summary.NotFound)

	// Output:
	// found: 1, not found: 1
}
