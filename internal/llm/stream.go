package llm

import (
	"context"
	"errors"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single role-tagged chat message
type Message struct {
	Role    Role
	Content string
}

// Completer opens streaming chat completions
type Completer interface {
	StreamChat(ctx context.Context, messages []Message) (Stream, error)
}

// Stream yields content deltas in the order the provider produced them.
//
// Recv returns io.EOF once the provider finishes. Any other error ends the
// stream abnormally.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// ErrStreamClosed is returned by Recv after Close
var ErrStreamClosed = errors.New("llm: stream closed")
