// Package orchestrate runs sets of independent tasks concurrently.
//
// Two orchestrators are built on the same unit of work, the [Task]:
//
//   - [Supervisor]: batched, all-or-nothing. It acquires a shared resource for
//     the run, launches one task per identity, waits for all of them and returns
//     the results in sorted identity order. The first task failure cancels the
//     remaining tasks and becomes the only result of the run.
//   - [Streamer]: launches one task per identity and yields each [Result] as
//     soon as its task finishes, in completion order. Failures are delivered
//     inline and never cancel the other tasks.
//
// Scheduling model: every task runs on its own goroutine (optionally capped
// with a max concurrency). Joins use errgroup, "wait for next" uses a buffered
// channel. Both orchestrators share this model.
//
// Task lifecycle:
//
//	created -> scheduled -> running -> {succeeded, failed}
//
// Terminal states are final, a task is never run twice.
package orchestrate
