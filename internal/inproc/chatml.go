package inproc

import (
	"strings"

	"llmgate/pkg/types"
)

// renderChatML lays out turns in the ChatML format and leaves an assistant
// turn open for the model to complete.
func renderChatML(turns []types.ConversationTurn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString("<|im_start|>")
		b.WriteString(strings.ToLower(t.Role))
		b.WriteString("\n")
		b.WriteString(t.Content)
		b.WriteString("<|im_end|>\n")
	}
	b.WriteString("<|im_start|>assistant\n")
	return b.String()
}

// stopWords end a completion at the next turn boundary.
var stopWords = []string{"<|im_end|>", "<|im_start|>"}
