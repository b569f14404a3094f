package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gitcz/internal/config"
	"github.com/gitcz/internal/mcpserver"
)

// ServeCommand returns the CLI command for starting the MCP tool server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the generate_commit_message tool over stdio or SSE",
		Action: RunServe,
	}
}

// RunServe starts the configured transport and blocks until it stops
func RunServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	s := mcpserver.New(gen, c.App.Version)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Transport == config.TransportSSE {
		return mcpserver.NewSSEServer(s, cfg.Server.Host, cfg.Server.Port).Start(ctx)
	}
	return mcpserver.ServeStdio(ctx, s)
}
