package llm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/gitcz/internal/config"
)

// UpstreamError wraps a failure reported by the completion provider
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// OpenAICompleter streams chat completions from an OpenAI compatible endpoint
type OpenAICompleter struct {
	provider string
	model    string
	llm      llms.Model
}

// NewOpenAICompleter creates a completer for the resolved provider settings
func NewOpenAICompleter(settings config.ProviderSettings) (*OpenAICompleter, error) {
	log.Debug().
		Str("provider", settings.Name).
		Str("model", settings.Model).
		Str("base_url", settings.BaseURL).
		Msg("Creating completion client")

	opts := []openai.Option{
		openai.WithModel(settings.Model),
		openai.WithToken(settings.APIKey),
	}
	if settings.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(settings.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create model for provider %s: %w", settings.Name, err)
	}

	return NewCompleter(settings.Name, settings.Model, model), nil
}

// NewCompleter wraps an existing langchaingo model
func NewCompleter(provider, modelName string, model llms.Model) *OpenAICompleter {
	return &OpenAICompleter{
		provider: provider,
		model:    modelName,
		llm:      model,
	}
}

// Provider returns the provider name
func (c *OpenAICompleter) Provider() string {
	return c.provider
}

// Model returns the model identifier
func (c *OpenAICompleter) Model() string {
	return c.model
}

// StreamChat starts a streamed completion. The request runs in its own
// goroutine and hands deltas to Recv one at a time.
func (c *OpenAICompleter) StreamChat(ctx context.Context, messages []Message) (Stream, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case RoleUser:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &chanStream{
		provider: c.provider,
		deltas:   make(chan string),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	go func() {
		_, err := c.llm.GenerateContent(ctx, content, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			select {
			case s.deltas <- string(chunk):
				return nil
			case <-s.done:
				return ErrStreamClosed
			case <-ctx.Done():
				return ctx.Err()
			}
		}))
		s.err = err
		close(s.deltas)
	}()

	return s, nil
}

// chanStream bridges the langchaingo streaming callback to a pull API.
// err is written before deltas is closed and read only after that.
type chanStream struct {
	provider  string
	deltas    chan string
	done      chan struct{}
	cancel    context.CancelFunc
	err       error
	closeOnce sync.Once
}

func (s *chanStream) Recv() (string, error) {
	select {
	case <-s.done:
		return "", ErrStreamClosed
	default:
	}

	delta, ok := <-s.deltas
	if !ok {
		if s.err != nil {
			return "", &UpstreamError{Provider: s.provider, Err: s.err}
		}
		return "", io.EOF
	}
	return delta, nil
}

func (s *chanStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
	})
	return nil
}
