// Command sgclose runs generator-closure jobs described in YAML and prints
// the result as JSON.
//
// Usage:
//
//	sgclose run job.yaml [--workers n] [--power-path] [--metrics-addr :9090]
//	sgclose algebra ba2.yaml
//	sgclose algebra --builtin cyclic --size 5 --yaml
//	sgclose version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=…".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sgclose:", err)
		stop()
		os.Exit(1)
	}
}
