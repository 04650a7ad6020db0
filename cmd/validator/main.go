// Command validator checks a sample order against the business-rule chain
// and prints whether it is valid.
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
	"github.com/menezmethod/handlerchain/internal/rule"
	"github.com/menezmethod/handlerchain/internal/version"
)

const program = "validator"

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

	v := rule.NewValidator(rule.DefaultRules(), app.Decorators[rule.Order, bool](env, program)...)
	env.Logger.Debug("rule chain built", "rules", v.Rules())

	order := rule.Order{Amount: 150.0, ItemCount: 5, Priority: "HIGH"}
	valid := v.Validate(ctx, order)

	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	env.Collector.ObserveResult(program, outcome)

	fmt.Fprintf(stdout, "Order is valid: %t\n", valid)
	return 0
}
