package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Stdout carries the stdio
// transport, so callers pass stderr as w.
func Setup(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	switch format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	case "json":
	default:
		return fmt.Errorf("invalid log format %q (must be console or json)", format)
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// Invocation tracks a single tool call
type Invocation struct {
	ID     string
	Logger zerolog.Logger
	start  time.Time
}

// StartInvocation returns a logger tagged with a fresh invocation id
func StartInvocation(tool string) *Invocation {
	id := uuid.NewString()
	inv := &Invocation{
		ID:     id,
		Logger: log.With().Str("invocation_id", id).Str("tool", tool).Logger(),
		start:  time.Now(),
	}
	inv.Logger.Info().Msg("Tool call started")
	return inv
}

// Done logs the outcome of the invocation
func (i *Invocation) Done(fragments, chars int, err error) {
	if i == nil {
		return
	}
	elapsed := time.Since(i.start).Round(time.Millisecond)
	if err != nil {
		i.Logger.Error().Err(err).
			Int("fragments", fragments).
			Dur("elapsed", elapsed).
			Msg("Tool call failed")
		return
	}
	i.Logger.Info().
		Int("fragments", fragments).
		Int("chars", chars).
		Dur("elapsed", elapsed).
		Msg("Tool call finished")
}

// Preview shortens s to at most n runes for log output
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
