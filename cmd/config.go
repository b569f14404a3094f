package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gitcz/internal/config"
)

// ConfigCommand returns the config command
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize a new configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "gitcz.toml",
					},
				},
				Action: runConfigInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: runConfigValidate,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets masked",
				Action: runConfigShow,
			},
		},
	}
}

func runConfigInit(c *cli.Context) error {
	outputPath := c.String("output")

	if err := config.InitConfig(outputPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Created configuration file at %s\n", outputPath)
	return nil
}

func runConfigValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprintln(c.App.Writer, "Configuration is valid")
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	p := cfg.Provider()
	fmt.Fprintf(w, "Transport: %s\n", cfg.Server.Transport)
	if cfg.Server.Transport == config.TransportSSE {
		fmt.Fprintf(w, "Listen: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	}
	fmt.Fprintf(w, "Base URL: %s\n", p.BaseURL)
	fmt.Fprintf(w, "Model: %s\n", p.Model)
	fmt.Fprintf(w, "Git: %s\n", cfg.Git.Binary)
	fmt.Fprintf(w, "Redact secrets: %v\n", cfg.Prompt.RedactSecrets)
	PrintCredentialCheck(w, CheckCredentials(cfg))
	return nil
}
