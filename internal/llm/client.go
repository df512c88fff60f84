package llm

import (
	"context"
	"errors"

	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

// ErrGateway wraps every provider-side failure (network, rate limit,
// malformed or empty completion). Callers branch on this sentinel and never
// see partial data.
var ErrGateway = errors.New("llm gateway failure")

// Client sends an ordered message sequence to the model and returns one
// completion string. The full transcript is sent as context on every call;
// there is no summarization or truncation, so conversation length is bounded
// by the model's context window.
type Client interface {
	Complete(ctx context.Context, messages []transcript.Message) (string, error)
}
