/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command tablequery reads entities from a configured table store and prints
// the classified outcome.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdout, os.Stderr, dynamoFactory).ExecuteContext(ctx)
	stop()
	if err != nil {
		// Failed operations were already printed as a result.
		var opErr *operationError
		if !errors.As(err, &opErr) {
			fmt.Fprintf(os.Stderr, "tablequery: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}
