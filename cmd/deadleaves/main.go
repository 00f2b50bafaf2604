// Command deadleaves renders dead-leaves texture charts.
//
// Usage:
//
//	deadleaves [generate] [flags]
//	deadleaves backends
//	deadleaves version
//
// By default it writes 100 numbered 1000x1000 PNG frames of 10000 disks
// each into the current directory.
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
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "deadleaves:", err)
		os.Exit(1)
	}
}
