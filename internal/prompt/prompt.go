// Package prompt builds the scripted messages that drive the interviewer
// model. It owns both halves of the string protocol between the prompt and
// the reply parser: the answer directive tells the model to emit the literal
// NextDelimiter, and the controller splits the reply on the same constant.
package prompt

import (
	"fmt"

	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

// NextDelimiter separates feedback from the next question in model replies.
const NextDelimiter = "NEXT:"

const systemTemplate = "You are an expert %s interviewer (seniority: %s). " +
	"Ask ONE clear question at a time, getting harder if the candidate performs well."

// startSentinel is never shown to the candidate; it only tells the model to
// produce the first question.
const startSentinel = "GENERATE"

const answerInstruction = "Give brief feedback on my answer (≤3 sentences). " +
	"Then say 'NEXT:' and ask the next question."

// SystemMessage formats the interview instruction for a role and seniority.
func SystemMessage(role, seniority string) transcript.Message {
	return transcript.System(fmt.Sprintf(systemTemplate, role, seniority))
}

// StartDirective returns the scripted user turn that requests the first question.
func StartDirective() transcript.Message {
	return transcript.User(startSentinel)
}

// AnswerDirective returns the candidate's raw answer followed by the fixed
// feedback/next-question instruction, in append order.
func AnswerDirective(candidateText string) []transcript.Message {
	return []transcript.Message{
		transcript.User(candidateText),
		transcript.User(answerInstruction),
	}
}
