package journal

// Prompts are the reflection prompts the editor cycles through.
var Prompts = []string{
	"How am I feeling right now?",
	"What went well today?",
	"What is weighing on me?",
	"What am I grateful for?",
	"What do I need more of?",
	"Free write",
}

// DefaultPrompt is the prompt selected for a fresh editor.
func DefaultPrompt() string {
	return Prompts[0]
}

// NextPrompt returns the prompt after current, wrapping around. Unknown
// prompts (e.g. from an import) restart at the first one.
func NextPrompt(current string) string {
	for i, p := range Prompts {
		if p == current {
			return Prompts[(i+1)%len(Prompts)]
		}
	}
	return Prompts[0]
}

// PromptAt resolves a 1-based prompt index from the CLI.
func PromptAt(i int) (string, bool) {
	if i < 1 || i > len(Prompts) {
		return "", false
	}
	return Prompts[i-1], true
}
