// Package lib provides a Go SDK to run fanout probes and downloads programmatically.
//
// This package allows applications to probe domains and download flags
// concurrently without shelling out to the fanout CLI binary. Every run is
// recorded in the run history database.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Probe domains, results arrive as they finish.
//	res, err := client.ProbeDomains(ctx, []string{"go.dev", "zoo.dev"}, &lib.ProbeOpts{
//	    OnResult: func(p lib.ProbeResult) { fmt.Println(p.Domain, p.Found) },
//	})
//
//	// Download flags, all or nothing.
//	dl, err := client.DownloadFlags(ctx, []string{"BR", "CN"}, &lib.DownloadOpts{DestDir: "./flags"})
//
// # Probes and downloads
//
// Probes are streamed: a probe that fails is reported with its error and the
// rest of the probes continue. A domain that doesn't resolve is not an error.
//
// Downloads are batched: the first failed download cancels the ones in flight
// and its error is returned, use [errors.As] with [*TransportError] to get the
// failed URL and status code.
//
// # Errors
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: Resource does not exist.
//   - [ErrAlreadyExists]: Resource with the same ID already exists.
//   - [ErrNotValid]: Invalid input (e.g. a malformed country code).
//   - [ErrResourceAcquisition]: The shared HTTP client of a download could not be created.
//
// # Testing
//
// Use a [ResolverFunc], a local HTTP server as BaseURL and a temporary
// database path to write tests without network access:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    DBPath:   filepath.Join(t.TempDir(), "test.db"),
//	    Resolver: lib.ResolverFunc(func(ctx context.Context, name string) (bool, error) { return true, nil }),
//	})
package lib
