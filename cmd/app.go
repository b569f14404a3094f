package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// NewApp assembles the command line application
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "gitcz",
		Usage:   "MCP tool server that writes Conventional Commits messages for pending git changes",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (default: ./gitcz.toml or ~/.gitcz.toml)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Read provider credentials from `FILE` if it exists",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Usage:   "Transport protocol: stdio or sse",
				Value:   "stdio",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the SSE transport",
				Value:   8000,
			},
		},
		Before: func(c *cli.Context) error {
			if err := LoadEnvFile(c.String("env-file")); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
			return nil
		},
		Action: RunServe,
		Commands: []*cli.Command{
			ServeCommand(),
			GenerateCommand(),
			ConfigCommand(),
		},
	}
}
