package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

const questionsReply = `Here are the questions:
[
  {"question": "How durable is NRR?", "category": "Growth", "difficulty": "hard",
   "context": "NRR fell two quarters running", "data_points": ["NRR 118%"]},
  {"question": "What is AI revenue?", "category": "AI", "difficulty": "medium"}
]`

const responseReply = `{"talking_points": ["Cohorts stabilising"], "key_metrics": ["NRR 118%"],
"response_text": "We see NRR stabilising.", "risk_level": "medium",
"follow_up_concerns": ["Guidance"]}`

func TestQuestionsCmd(t *testing.T) {
	env := setupTestServices(t, &stubLLM{reply: questionsReply})

	out, err := runCommand(t, "questions", "-n", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "1. How durable is NRR?")
	assert.Contains(t, out, "Category: Growth | Difficulty: hard")
	assert.Contains(t, out, "Why: NRR fell two quarters running")
	assert.Contains(t, out, "Data: NRR 118%")
	assert.Contains(t, out, "2. What is AI revenue?")

	require.Len(t, env.llm.prompts, 1)
	assert.Contains(t, env.llm.prompts[0], "the company")
}

func TestQuestionsCmd_JSON(t *testing.T) {
	setupTestServices(t, &stubLLM{reply: questionsReply})

	out, err := runCommand(t, "questions", "--json")

	require.NoError(t, err)
	var questions []domain.Question
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
}

func TestQuestionsCmd_InvalidCount(t *testing.T) {
	setupTestServices(t, &stubLLM{reply: questionsReply})

	_, err := runCommand(t, "questions", "-n", "0")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuestionsCmd_NoLLM(t *testing.T) {
	setupTestServices(t, nil)

	_, err := runCommand(t, "questions")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestQuestionsCmd_MalformedReply(t *testing.T) {
	setupTestServices(t, &stubLLM{reply: "I cannot help with that."})

	_, err := runCommand(t, "questions")

	assert.ErrorIs(t, err, domain.ErrMalformedReply)
}

func TestQuestionsCmd_LLMError(t *testing.T) {
	setupTestServices(t, &stubLLM{err: errors.New("boom")})

	_, err := runCommand(t, "questions")

	assert.ErrorContains(t, err, "boom")
}

func TestRespondCmd(t *testing.T) {
	env := setupTestServices(t, &stubLLM{reply: responseReply})

	out, err := runCommand(t, "respond", "--category", "Growth", "How durable is NRR?")

	require.NoError(t, err)
	assert.Contains(t, out, "Talking points:\n  - Cohorts stabilising")
	assert.Contains(t, out, "Key metrics:\n  - NRR 118%")
	assert.Contains(t, out, "We see NRR stabilising.")
	assert.Contains(t, out, "Risk level: medium")
	assert.Contains(t, out, "Likely follow-ups:\n  - Guidance")
	require.Len(t, env.llm.prompts, 1)
	assert.Contains(t, env.llm.prompts[0], "How durable is NRR?")
}

func TestRespondCmd_JSON(t *testing.T) {
	setupTestServices(t, &stubLLM{reply: responseReply})

	out, err := runCommand(t, "respond", "--json", "How durable is NRR?")

	require.NoError(t, err)
	var resp domain.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "medium", resp.RiskLevel)
}

func TestRespondCmd_BlankQuestion(t *testing.T) {
	setupTestServices(t, &stubLLM{reply: responseReply})

	_, err := runCommand(t, "respond", " ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextCmd_WithoutLLM(t *testing.T) {
	env := setupTestServices(t, nil)
	env.load(t, map[string]string{"notes.txt": "Consumption slowed. Hiring paused."})

	out, err := runCommand(t, "context", "consumption")

	require.NoError(t, err)
	assert.Contains(t, out, "Consumption slowed")
	assert.NotContains(t, out, "Hiring paused")
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}
