// Command responder sends a sample request through the responsibility chain
// and prints the response of the first unit that handled it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/menezmethod/handlerchain/internal/app"
	"github.com/menezmethod/handlerchain/internal/responder"
	"github.com/menezmethod/handlerchain/internal/version"
)

const program = "responder"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.yaml (optional, env vars work without it)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String(program))
		return 0
	}

	// Load configuration: defaults -> YAML file -> env vars.
	ctx, env, err := app.Setup(ctx, program, *configPath, stderr)
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("startup failed", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = env.Close(shutdownCtx)
	}()

	r := responder.NewResponder(responder.DefaultUnits(stdout),
		app.Decorators[responder.Request, responder.Result](env, program)...)

	res := r.Handle(ctx, responder.Request{User: "admin", Data: "data"})

	if resp, ok := res.Get(); ok {
		env.Collector.ObserveResult(program, "handled")
		fmt.Fprintf(stdout, "Response: %s\n", resp.Message)
	} else {
		env.Collector.ObserveResult(program, "unhandled")
		fmt.Fprintln(stdout, "Request was not handled")
	}
	return 0
}
