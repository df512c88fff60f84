package llm

import (
	"context"
	"fmt"

	"github.com/kanchNaik/AiMockInterviewer/internal/prompt"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

var mockQuestions = []string{
	"Tell me about a project you are proud of.",
	"How would you explain a hash map to a junior colleague?",
	"What trade-offs would you weigh when choosing between SQL and NoSQL storage?",
	"Describe a production incident you debugged and what you changed afterwards.",
}

// MockClient produces deterministic replies when no provider is configured.
// It honors the same reply protocol the real model is prompted to follow,
// so the full interview flow works offline.
type MockClient struct{}

func NewMock() *MockClient { return &MockClient{} }

func (c *MockClient) Complete(ctx context.Context, messages []transcript.Message) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrGateway, ctx.Err())
	default:
	}

	asked := 0
	for _, m := range messages {
		if m.Role == transcript.RoleAssistant {
			asked++
		}
	}
	question := mockQuestions[asked%len(mockQuestions)]

	if asked == 0 {
		return question, nil
	}
	return fmt.Sprintf("Clear and well structured answer. %s %s", prompt.NextDelimiter, question), nil
}
