package answer

import (
	"fmt"
	"strings"
)

// maxContextDocs caps how many retrieved documents feed the prompt.
const maxContextDocs = 3

// stopTokens cut generation when the model starts a new dialogue turn.
var stopTokens = []string{"Question:", "Context:", "Human:", "Assistant:"}

const promptTemplate = `Context:
%s

Question: %s

Instructions: Please provide a comprehensive and detailed answer based on the context provided. Your response should:
1. Be thorough and well-explained
2. Include relevant details and examples from the context
3. Be at least 100 words long
4. Address all aspects of the question
5. Use clear and professional language

Answer:`

// buildPrompt assembles the generation prompt from the question and up to
// maxContextDocs context documents, joined with blank lines.
func buildPrompt(question string, contextDocs []string) string {
	if len(contextDocs) > maxContextDocs {
		contextDocs = contextDocs[:maxContextDocs]
	}
	return fmt.Sprintf(promptTemplate, strings.Join(contextDocs, "\n\n"), question)
}
