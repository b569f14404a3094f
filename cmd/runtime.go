package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/gitcz/internal/commitmsg"
	"github.com/gitcz/internal/config"
	"github.com/gitcz/internal/git"
	"github.com/gitcz/internal/llm"
	"github.com/gitcz/internal/logging"
	"github.com/gitcz/internal/redact"
)

// loadConfig reads the configuration, applies command line overrides and
// configures logging
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("transport") {
		cfg.Server.Transport = c.String("transport")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	if err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildGenerator wires the diff extractor, completion client and optional
// redactor from a validated configuration
func buildGenerator(cfg *config.Config) (*commitmsg.Generator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	settings := cfg.Provider()
	if requested := strings.TrimSpace(cfg.LLM.Provider); !strings.EqualFold(requested, settings.Name) {
		log.Debug().Str("requested", requested).Str("using", settings.Name).Msg("Unknown provider, using default")
	}

	completer, err := llm.NewOpenAICompleter(settings)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", completer.Provider()).Str("model", completer.Model()).Msg("Completion provider ready")

	var opts []commitmsg.Option
	if cfg.Prompt.RedactSecrets {
		r, err := redact.NewGitleaks()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secret redaction: %w", err)
		}
		opts = append(opts, commitmsg.WithRedactor(r))
	}

	extractor := git.NewExtractor(cfg.Git.Binary, cfg.Git.Dir)
	return commitmsg.NewGenerator(extractor, completer, opts...), nil
}
