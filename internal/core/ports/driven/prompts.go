package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptQuestions asks for anticipated analyst questions as a JSON array.
	// Placeholders: %s company, %d count, %s context.
	PromptQuestions = "questions"

	// PromptResponse asks for a prepared answer as a JSON object.
	// Placeholders: %s company, %s question, %s context.
	PromptResponse = "response"
)
