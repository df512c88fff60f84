package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/kanchNaik/AiMockInterviewer/internal/prompt"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

func TestFactoryModes(t *testing.T) {
	cases := []struct {
		name    string
		mode    string
		apiKey  string
		wantErr bool
		isMock  bool
	}{
		{name: "auto without key falls back to mock", mode: "auto", isMock: true},
		{name: "auto with key picks openai", mode: "auto", apiKey: "k"},
		{name: "explicit mock", mode: "mock", isMock: true},
		{name: "explicit openai with key", mode: "openai", apiKey: "k"},
		{name: "explicit openai without key fails", mode: "openai", wantErr: true},
		{name: "unknown mode fails", mode: "banana", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.mode, OpenAIConfig{APIKey: tc.apiKey, Model: "gpt-4o-mini"})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("New(%q) expected error", tc.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tc.mode, err)
			}
			_, gotMock := c.(*MockClient)
			if gotMock != tc.isMock {
				t.Fatalf("New(%q) mock = %v, want %v", tc.mode, gotMock, tc.isMock)
			}
		})
	}
}

func TestMockFirstReplyIsBareQuestion(t *testing.T) {
	c := NewMock()
	reply, err := c.Complete(context.Background(), []transcript.Message{
		prompt.SystemMessage("Data Scientist", "mid"),
		prompt.StartDirective(),
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply == "" || strings.Contains(reply, prompt.NextDelimiter) {
		t.Fatalf("first reply = %q, want a question without the delimiter", reply)
	}
}

func TestMockAnswerReplyFollowsProtocol(t *testing.T) {
	c := NewMock()
	msgs := []transcript.Message{
		prompt.SystemMessage("Data Scientist", "mid"),
		prompt.StartDirective(),
		transcript.Assistant("Q1"),
	}
	msgs = append(msgs, prompt.AnswerDirective("my answer")...)

	reply, err := c.Complete(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(reply, prompt.NextDelimiter) {
		t.Fatalf("answer reply = %q, want feedback with %q delimiter", reply, prompt.NextDelimiter)
	}
}
