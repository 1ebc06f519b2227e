// Package system holds process level helpers shared by the services.
package system

import (
	"context"
)

// Runs operation under its own context and waits for it to return, even when
// ctx is cancelled first. Cancelling ctx cancels the operation's context,
// so the operation can stop early while still releasing what it holds
// (open channels, worker goroutines) before RunWithContext returns.
//
// Returns:
//   - ctx.Err() without running anything if ctx is already done.
//   - the operation's error otherwise, whether or not ctx was cancelled.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	// Fail fast when the caller gave up before we started.
	if err := ctx.Err(); err != nil {
		return err
	}

	// The operation gets an independent context so that cancelling ctx
	// signals it without abandoning it.
	operationCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so the goroutine can always deliver its result and exit.
	done := make(chan error, 1)

	go func() {
		done <- operation(operationCtx)
		close(done)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// Signal the operation to stop, then wait until it has cleaned up.
		cancel()
		return <-done
	}
}
