package transcript

import (
	"context"
	"errors"
)

// Role tags the author of a message, mirroring the chat-completion wire format.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn. Immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var ErrNotFound = errors.New("session not found")

// Store keeps one ordered transcript per session id. Insertion order is the
// invariant: the sequence is replayed verbatim to the model on every call,
// so implementations must never reorder or deduplicate.
type Store interface {
	// Create inserts a fresh transcript holding only the system message,
	// silently replacing any transcript already stored under id.
	Create(ctx context.Context, id string, system Message) error
	// Append pushes messages to the end of the sequence in the given order.
	// Returns ErrNotFound if id is absent; it never auto-creates.
	Append(ctx context.Context, id string, msgs ...Message) error
	// Get returns the full ordered sequence, or ErrNotFound.
	Get(ctx context.Context, id string) ([]Message, error)
	// Delete removes the session. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	Close() error
}

// System builds a system-role message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user-role message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant builds an assistant-role message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }
