package commitmsg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gitcz/internal/git"
	"github.com/gitcz/internal/llm"
	"github.com/gitcz/internal/logging"
	"github.com/gitcz/internal/prompts"
	"github.com/gitcz/internal/redact"
)

const (
	// ToolName is the only tool this generator answers to
	ToolName = "generate_commit_message"

	// NoChangesMessage is emitted when the working tree has nothing to describe
	NoChangesMessage = "feat: No changes detected"

	// FragmentText is the type tag of every emitted fragment
	FragmentText = "text"
)

// Fragment is one piece of generated output
type Fragment struct {
	Type string
	Text string
}

// DiffSource produces the diff a commit message is written for
type DiffSource interface {
	Diff(ctx context.Context) git.DiffResult
}

// Generator turns the pending diff into a streamed commit message
type Generator struct {
	diffs     DiffSource
	completer llm.Completer
	template  prompts.Template
	redactor  redact.Redactor
}

// Option configures a Generator
type Option func(*Generator)

// WithTemplate overrides the compiled-in prompt template
func WithTemplate(t prompts.Template) Option {
	return func(g *Generator) { g.template = t }
}

// WithRedactor masks secrets in the diff before it is sent upstream
func WithRedactor(r redact.Redactor) Option {
	return func(g *Generator) { g.redactor = r }
}

// NewGenerator creates a Generator
func NewGenerator(diffs DiffSource, completer llm.Completer, opts ...Option) *Generator {
	g := &Generator{
		diffs:     diffs,
		completer: completer,
		template:  prompts.Default,
		redactor:  redact.Nop{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the diff extractor and, when there is something to describe,
// opens a completion stream. Domain outcomes (no git, failing git, no changes)
// come back as a single fragment; only an unknown tool name or a provider
// failure is returned as an error.
func (g *Generator) Generate(ctx context.Context, toolName string, arguments map[string]any) (*Fragments, error) {
	if toolName != ToolName {
		return nil, &UnknownToolError{Name: toolName}
	}

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &log.Logger
	}

	res := g.diffs.Diff(ctx)
	if res.IsError() {
		logger.Warn().Str("error", res.Err).Msg("Diff extraction failed")
		return single(res.Err), nil
	}

	if strings.TrimSpace(res.Text) == "" {
		logger.Info().Msg("No changes detected")
		return single(NoChangesMessage), nil
	}

	stat := git.Summarize(res.Text)
	logger.Info().
		Int("files", len(stat.Files)).
		Int("added", stat.Added).
		Int("removed", stat.Removed).
		Int("diff_bytes", len(res.Text)).
		Msg("Diff collected")

	diff, redacted := g.redactor.Redact(res.Text)
	if redacted > 0 {
		logger.Warn().Int("secrets", redacted).Msg("Redacted secrets from diff")
	}

	userPrompt, err := g.template.RenderUser(diff)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}
	logger.Debug().
		Int("prompt_chars", len(userPrompt)).
		Str("diff_head", logging.Preview(diff, 120)).
		Msg("Requesting completion")

	stream, err := g.completer.StreamChat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: g.template.System},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start completion: %w", err)
	}

	return &Fragments{upstream: stream}, nil
}

// Fragments is a finite, non-restartable sequence of fragments
type Fragments struct {
	pending  *Fragment
	upstream llm.Stream
	done     bool
}

func single(text string) *Fragments {
	return &Fragments{pending: &Fragment{Type: FragmentText, Text: text}}
}

// Recv returns the next fragment, or io.EOF once the sequence has ended.
// Empty upstream deltas are skipped.
func (f *Fragments) Recv() (Fragment, error) {
	if f.pending != nil {
		frag := *f.pending
		f.pending = nil
		f.done = f.upstream == nil
		return frag, nil
	}
	if f.done || f.upstream == nil {
		return Fragment{}, io.EOF
	}

	for {
		delta, err := f.upstream.Recv()
		if err != nil {
			f.done = true
			if errors.Is(err, io.EOF) {
				return Fragment{}, io.EOF
			}
			return Fragment{}, err
		}
		if delta == "" {
			continue
		}
		return Fragment{Type: FragmentText, Text: delta}, nil
	}
}

// Close releases the upstream stream
func (f *Fragments) Close() error {
	f.done = true
	if f.upstream != nil {
		return f.upstream.Close()
	}
	return nil
}

// Collect drains fragments, calling emit for each, and returns the
// concatenated text
func Collect(f *Fragments, emit func(Fragment) error) (string, error) {
	defer f.Close()

	var b strings.Builder
	for {
		frag, err := f.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return b.String(), err
		}
		b.WriteString(frag.Text)
		if emit != nil {
			if err := emit(frag); err != nil {
				return b.String(), err
			}
		}
	}
}
