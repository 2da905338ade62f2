// Command textnet reads tokenized free-text records as JSON Lines and
// writes one co-occurrence network for all records plus one per category.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "textnet: %v\n", err)
		os.Exit(1)
	}
}
