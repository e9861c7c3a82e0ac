// Package main implements the depcache explain tool: it classifies SQL
// statements and prints the dependency tags the engine resolves for them
// against the configured resource catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/electwix/depcache"
	"github.com/electwix/depcache/internal/catalog"
	"github.com/electwix/depcache/internal/catalog/postgres"
	"github.com/electwix/depcache/internal/catalog/sqlite"
	"github.com/electwix/depcache/internal/cli"
	"github.com/electwix/depcache/internal/config"
	"github.com/electwix/depcache/internal/deptag"
	"github.com/electwix/depcache/internal/logging"
	"github.com/electwix/depcache/internal/policy"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stdout, err.Error())
			return 0
		}
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.NewSlogAdapter(logging.New(logging.Options{
		Verbose: opts.Verbose,
		Writer:  stderr,
	}))

	cfg, err := config.Load(opts.ConfigPath, config.LoadOptions{Strict: opts.StrictConfig})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	for _, warning := range cfg.Warnings {
		fmt.Fprintln(stderr, warning)
	}

	enum, cleanup, err := buildEnumerator(ctx, cfg.Plan)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	defer cleanup()

	policies, err := policy.LoadFiles(cfg.Plan.PolicyFiles)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	engine, err := depcache.New(depcache.Options{
		Enumerator: enum,
		Logger:     logger,
		Policies:   policies,
	})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	statements := opts.Args
	if opts.Stdin {
		input, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read stdin: %v\n", err)
			return 1
		}
		statements = splitStatements(string(input))
	}
	if len(statements) == 0 {
		fmt.Fprintln(stderr, "no SQL statements given; pass them as arguments or use -stdin")
		return 1
	}

	for _, stmt := range statements {
		if err := explain(ctx, engine, cfg.Plan.Owner, stmt, stdout); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
	}
	return 0
}

// explain prints one line per statement: its classification and the tags a
// cache entry would carry (reads) or the tags a purge would target (writes).
func explain(ctx context.Context, engine *depcache.Engine, owner depcache.Identity, sql string, w io.Writer) error {
	p, ok := policy.FromSQL(sql)
	if !ok {
		p = policy.Default()
	}

	tags, err := engine.ResolveReadDependencies(ctx, p, owner, sql)
	if err != nil {
		return err
	}

	kind := "read"
	if depcache.IsMutating(sql) {
		kind = "write"
		tags = deptag.Add(tags, depcache.UnknownDependency)
	}

	fmt.Fprintf(w, "%-5s %s\n", kind, strings.Join(deptag.Strings(tags), ","))
	return nil
}

func buildEnumerator(ctx context.Context, plan config.Plan) (depcache.Enumerator, func(), error) {
	nop := func() {}
	switch plan.Source {
	case config.SourceStatic:
		return catalog.NewStatic(map[catalog.Identity][]string{
			plan.Owner: plan.Resources,
		}), nop, nil
	case config.SourcePostgres:
		enum, err := postgres.Open(ctx, plan.DSN, plan.Schema)
		if err != nil {
			return nil, nop, err
		}
		return enum, func() { _ = enum.Close(context.Background()) }, nil
	case config.SourceSQLite:
		enum, err := sqlite.Open(plan.Path)
		if err != nil {
			return nil, nop, err
		}
		return enum, func() { _ = enum.Close() }, nil
	default:
		return nil, nop, fmt.Errorf("unsupported catalog source %q", plan.Source)
	}
}

// splitStatements breaks stdin input on semicolons, dropping empty pieces.
func splitStatements(input string) []string {
	parts := strings.Split(input, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
