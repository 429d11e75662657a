// Package ai provides factory functions for creating AI service adapters
// and the contradiction detectors built on them.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/contextguard/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/contextguard/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/contextguard/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	Detector    driven.ContradictionDetector
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues that caused fallback.
	FellBack    bool               // True if the demo detector stands in for a model.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the contradiction detector for settings.
//
// The demo provider, and any setup without a usable provider, gets the demo
// detector. Connectivity is not checked here; the detector reports it through
// Availability when a check runs.
func Initialise(settings *domain.LLMSettings, prompts driven.PromptStore, opts ...DetectorOption) *InitResult {
	result := &InitResult{PromptStore: prompts}

	if settings != nil && settings.Provider == domain.AIProviderDemo {
		result.Detector = NewDemoDetector()
		return result
	}

	if settings == nil || !settings.IsConfigured() {
		if settings != nil && settings.Provider != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("LLM provider %q is not fully configured; using demo results", settings.Provider))
		}
		result.Detector = NewDemoDetector()
		result.FellBack = true
		return result
	}

	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v", err))
		}
		result.Detector = NewDemoDetector()
		result.FellBack = true
		return result
	}

	result.LLMService = svc
	result.Detector = NewLLMDetector(svc, append([]DetectorOption{WithPromptStore(prompts)}, opts...)...)
	return result
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings command to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured or needs no model.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	case domain.AIProviderDemo:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
