// Package interview orchestrates the turn-based mock-interview protocol:
// it owns the transcript mutations around each model call and the parsing
// of model replies into structured turns. Conversation state lives entirely
// in the transcript's shape; there is no separate state flag.
package interview

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kanchNaik/AiMockInterviewer/internal/llm"
	"github.com/kanchNaik/AiMockInterviewer/internal/prompt"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

// FallbackQuestion is returned when the model reply omits the delimiter.
const FallbackQuestion = "Interview finished."

// Turn is the structured result of one answer round.
type Turn struct {
	Feedback string `json:"feedback"`
	Question string `json:"question"`
}

// Controller drives interview sessions. All transcript mutations for one
// session id are serialized across the whole turn (append, model call,
// append) so concurrent turns on the same session can never interleave;
// distinct sessions proceed fully in parallel.
type Controller struct {
	store   transcript.Store
	gateway llm.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewController(store transcript.Store, gateway llm.Client) *Controller {
	return &Controller{
		store:   store,
		gateway: gateway,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-session mutex, creating it on first use. Lock
// entries are tiny and live for the process lifetime; the session count is
// bounded by the store's idle eviction.
func (c *Controller) lockFor(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

// Start opens a session and asks the model for the first question. A blank
// sessionID gets a fresh opaque id; a supplied id replaces any previous
// transcript under it. On success the transcript holds exactly three
// messages: system instruction, start directive, assistant question.
func (c *Controller) Start(ctx context.Context, sessionID, role, seniority string) (string, string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = uuid.NewString()
	}

	l := c.lockFor(id)
	l.Lock()
	defer l.Unlock()

	if err := c.store.Create(ctx, id, prompt.SystemMessage(role, seniority)); err != nil {
		return "", "", err
	}
	if err := c.store.Append(ctx, id, prompt.StartDirective()); err != nil {
		return "", "", err
	}

	msgs, err := c.store.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	question, err := c.gateway.Complete(ctx, msgs)
	if err != nil {
		// A failed start must not leave a dangling directive behind: the
		// transcript is removed so a retry sees a clean slate.
		_ = c.store.Delete(ctx, id)
		return "", "", err
	}

	if err := c.store.Append(ctx, id, transcript.Assistant(question)); err != nil {
		return "", "", err
	}
	return id, question, nil
}

// Answer records the candidate's answer, asks the model for feedback plus
// the next question, and parses the reply. Unknown session ids fail with
// transcript.ErrNotFound; sessions are never auto-created here.
func (c *Controller) Answer(ctx context.Context, sessionID, text string) (Turn, error) {
	l := c.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	if err := c.store.Append(ctx, sessionID, prompt.AnswerDirective(text)...); err != nil {
		return Turn{}, err
	}

	msgs, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return Turn{}, err
	}
	reply, err := c.gateway.Complete(ctx, msgs)
	if err != nil {
		return Turn{}, err
	}

	if err := c.store.Append(ctx, sessionID, transcript.Assistant(reply)); err != nil {
		return Turn{}, err
	}
	return ParseReply(reply), nil
}

// Transcript returns the full ordered message sequence for a session.
func (c *Controller) Transcript(ctx context.Context, sessionID string) ([]transcript.Message, error) {
	return c.store.Get(ctx, sessionID)
}

// Reset deletes a session's transcript, failing if the id is unknown.
// Used by the reset flow before re-running session creation under the same id.
func (c *Controller) Reset(ctx context.Context, sessionID string) error {
	l := c.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	if _, err := c.store.Get(ctx, sessionID); err != nil {
		return err
	}
	return c.store.Delete(ctx, sessionID)
}

// Delete removes a session's transcript; deleting an absent id is a no-op.
func (c *Controller) Delete(ctx context.Context, sessionID string) error {
	l := c.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	return c.store.Delete(ctx, sessionID)
}

// ParseReply splits a model reply on the first occurrence of the NEXT:
// delimiter: text before is feedback, text after is the next question.
// Replies without the delimiter become pure feedback with the fixed
// fallback question. Further delimiter occurrences stay embedded in the
// question text; the split is first-occurrence only.
func ParseReply(reply string) Turn {
	before, after, found := strings.Cut(reply, prompt.NextDelimiter)
	if !found {
		return Turn{
			Feedback: strings.TrimSpace(reply),
			Question: FallbackQuestion,
		}
	}
	return Turn{
		Feedback: strings.TrimSpace(before),
		Question: strings.TrimSpace(after),
	}
}
