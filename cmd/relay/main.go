// Command relay discovers a configured set of A2A agents, routes free-text
// queries to the best-matching agent, and forwards them over the A2A
// HTTP+JSON transport.
//
// Usage:
//
//	relay serve --config relay.yaml
//	relay query --config relay.yaml "What time is it?"
//	relay agents --config relay.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/relaymesh/relay/pkg/config"
	"github.com/relaymesh/relay/pkg/logger"
	"github.com/relaymesh/relay/pkg/runtime"
	"github.com/relaymesh/relay/pkg/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve    ServeCmd    `cmd:"" help:"Discover agents and start the HTTP server."`
	Query    QueryCmd    `cmd:"" help:"Route a single query and print the agent's response."`
	Agents   AgentsCmd   `cmd:"" help:"Discover agents and print their capability cards."`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration file."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	Config    string `short:"c" help:"Path to config file." type:"path" default:"relay.yaml"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("relay version %s\n", version)
	return nil
}

// ValidateCmd validates the configuration file.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	fmt.Printf("Config OK: %d agents configured\n", len(cfg.Agents))
	return nil
}

// ServeCmd discovers agents and starts the HTTP server.
type ServeCmd struct{}

func (c *ServeCmd) Run(cli *CLI) error {
	rt, err := buildRuntime(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := rt.Refresh(ctx); err != nil {
		return fmt.Errorf("initial discovery failed: %w", err)
	}

	return server.New(rt).Start(ctx)
}

// QueryCmd routes a single query, dispatches it, and prints the response.
type QueryCmd struct {
	Text      string `arg:"" help:"The query to route."`
	RouteOnly bool   `help:"Only print the routing decision, do not dispatch."`
}

func (c *QueryCmd) Run(cli *CLI) error {
	rt, err := buildRuntime(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := rt.Refresh(ctx); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if c.RouteOnly {
		decision, err := rt.Route(ctx, c.Text)
		if err != nil {
			return err
		}
		fmt.Printf("%s (method=%s matched=%t)\n", decision.Agent, decision.Method, decision.Matched)
		return nil
	}

	result, err := rt.Handle(ctx, c.Text)
	if err != nil {
		return err
	}

	fmt.Printf("[%s via %s]\n%s\n", result.Decision.Agent, result.Decision.Method, result.Response)
	return nil
}

// AgentsCmd discovers agents and prints their capability cards.
type AgentsCmd struct{}

func (c *AgentsCmd) Run(cli *CLI) error {
	rt, err := buildRuntime(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := rt.Refresh(ctx); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	snap := rt.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL\tSKILLS\tDESCRIPTION")
	for _, name := range snap.Names() {
		card, _ := snap.Card(name)
		url, _ := snap.BaseURL(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, url, len(card.Skills), card.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d configured agents discovered\n", snap.Len(), len(rt.Config().Agents))
	return nil
}

func buildRuntime(cli *CLI) (*runtime.Runtime, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	return runtime.New(cfg), nil
}

func setupLogging(cli *CLI) (func(), error) {
	output := os.Stderr
	cleanup := func() {}

	if cli.LogFile != "" {
		file, fileCleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		cleanup = fileCleanup
	}

	logger.Init(logger.ParseLevel(cli.LogLevel), output, cli.LogFormat)
	return cleanup, nil
}

func main() {
	// Best-effort .env loading; a missing file is fine.
	_ = godotenv.Load()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("relay"),
		kong.Description("A2A agent discovery, routing, and dispatch."),
		kong.UsageOnError(),
	)

	cleanup, err := setupLogging(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := kctx.Run(cli); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cleanup()
		os.Exit(1)
	}
}
