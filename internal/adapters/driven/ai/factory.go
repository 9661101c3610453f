// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	anthropicllm "github.com/custodia-labs/warroom/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/logger"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues that disabled generation.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Enabled reports whether question and response generation is available.
func (r *InitResult) Enabled() bool {
	return r.LLMService != nil
}

// Init creates the LLM service from settings. An unconfigured or invalid
// provider is not fatal: generation is disabled and a warning recorded.
func Init(settings *domain.LLMSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}

	svc, err := CreateLLMService(settings)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("LLM disabled: %v", err)
	case svc == nil:
		result.Warnings = append(result.Warnings,
			"no API key configured; set ANTHROPIC_API_KEY or 'warroom config set llm.api_key'")
	default:
		result.LLMService = svc
		logger.Debug("LLM enabled: model=%s", svc.ModelName())
	}

	return result
}

// CreateLLMService creates the LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create anthropic service: %w", err)
	}
	return svc, nil
}
