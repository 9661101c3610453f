package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to built-in defaults.
//
// Initialisation is lazy: the directory and default files are only written
// on the first Load, never by the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are used when a user file is missing and seed new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQuestions: `You are a senior Wall Street equity research analyst preparing for %s's earnings call.

Based on this data, generate %d tough, specific questions analysts are likely to ask:

%s

KEY MARKET TRENDS:
- GenAI adoption accelerating
- Consumption model volatility concerns
- Data platform consolidation
- Competitive pressure from adjacent platforms

Focus on:
- Net revenue retention and consumption trends
- Competitive positioning
- AI strategy and GenAI workload adoption
- Growth sustainability and profitability balance
- Customer health and optimisation behaviour

Format as a JSON array:
[
  {
    "id": "q1",
    "question": "full question text",
    "category": "Growth|Profitability|Competition|AI Strategy|Customer Trends",
    "difficulty": "Hard|Very Hard",
    "context": "why this matters",
    "data_points": ["relevant metrics"]
  }
]

Return ONLY valid JSON.`,

	driven.PromptResponse: `You are %s's CFO preparing to answer this analyst question:

QUESTION: "%s"

Based on this data:
%s

Prepare a response that:
1. Leads with the positive narrative
2. Acknowledges concerns directly, with context
3. Uses specific metrics
4. Provides forward-looking commentary
5. Sounds natural (2-3 paragraphs at most)

Format as JSON:
{
  "talking_points": ["point 1", "point 2", "point 3"],
  "key_metrics": ["metric 1", "metric 2"],
  "response_text": "full response as the CFO would deliver it",
  "risk_level": "Low|Medium|High",
  "follow_up_concerns": ["potential follow-up 1", "potential follow-up 2"]
}

Return ONLY valid JSON.`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	prompt, ok := defaultPrompts[name]
	return prompt, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.warroom/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name: the cached copy,
// else the file on disk, else the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, the default prompt files and a
// README. Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), readme); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %s is empty", s.path(name))
	}
	return prompt, nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const readme = `# warroom prompts

Templates sent to the language model when preparing for an earnings call.

## Files

- questions.txt - anticipated analyst questions, returned as a JSON array
- response.txt - a prepared answer to one question, returned as a JSON object

## Placeholders

Templates are Go format strings. Keep the placeholders in order:

- questions.txt: %s company, %d number of questions, %s context
- response.txt: %s company, %s question, %s context

Write a literal percent sign as %%.

Changes take effect on the next command.
`
