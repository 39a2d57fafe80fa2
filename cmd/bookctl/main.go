// Command bookctl runs maintenance tasks against a BookScanner deployment:
// schema migrations, catalog lookups and bulk imports into a collection.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"bookscanner/internal/config"
	"bookscanner/internal/platform/logging"
)

// CLI is the command tree of bookctl.
type CLI struct {
	Config   string `help:"Path to the YAML config file" env:"BOOKSCANNER_CONFIG" default:"config.yaml" type:"path"`
	LogLevel string `help:"Log level" default:"warn" enum:"debug,info,warn,error"`

	Migrate MigrateCmd `cmd:"" help:"Apply, roll back or inspect database migrations"`
	Lookup  LookupCmd  `cmd:"" help:"Look an ISBN up in Google Books"`
	Import  ImportCmd  `cmd:"" help:"Add ISBNs to a user's collection"`
}

// runEnv is bound into every command's Run method.
type runEnv struct {
	ctx    context.Context
	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("bookctl"),
		kong.Description("Maintenance commands for the BookScanner service."),
		kong.UsageOnError(),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	config.LoadEnvFiles()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, kctx, &cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, kctx *kong.Context, cli *CLI, out io.Writer) error {
	cfg, err := config.Read(cli.Config)
	if err != nil {
		return err
	}
	logger, err := logging.New(cli.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return kctx.Run(&runEnv{ctx: ctx, cfg: cfg, logger: logger, out: out})
}
