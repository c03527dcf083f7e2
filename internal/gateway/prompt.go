package gateway

import (
	"strings"

	"llmgate/pkg/types"
)

// assistantCue closes every flattened prompt so the model answers as the assistant.
const assistantCue = "Assistant:"

// FlattenPrompt renders prior turns and a new prompt as a single text prompt
// for backends without structured multi-turn input. User and assistant turns
// get a role label; any other role is emitted as bare text.
func FlattenPrompt(history []types.ConversationTurn, prompt string) string {
	var b strings.Builder
	for _, t := range history {
		switch strings.ToLower(t.Role) {
		case types.RoleUser:
			b.WriteString("User: ")
		case types.RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(prompt)
	b.WriteString("\n\n")
	b.WriteString(assistantCue)
	return b.String()
}

// Label derives the display label of a model name.
func Label(name string) string {
	return strings.NewReplacer(":", " ", "@", " ").Replace(name)
}
