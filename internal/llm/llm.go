// Package llm provides the optional text-generation capability used by the
// classifier and entity extraction. Every caller treats a Generator as
// unreliable and keeps a deterministic path that does not need one.
package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ErrNotConfigured is returned by New when no provider is selected.
var ErrNotConfigured = errors.New("llm: no provider configured")

// Provider names accepted by New.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderGemini     = "gemini"
	ProviderOllama     = "ollama"
)

// Settings select and configure a backend.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-sonnet-4-5-20250929",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderDeepSeek:   "deepseek-chat",
	ProviderGemini:     "gemini-1.5-flash",
	ProviderOllama:     "llama3.1",
}

var defaultBaseURLs = map[string]string{
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderDeepSeek:   "https://api.deepseek.com/v1",
}

// New builds the backend named by s.Provider.
func New(ctx context.Context, s Settings) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" || provider == "none" {
		return nil, ErrNotConfigured
	}
	model := s.Model
	if model == "" {
		model = defaultModels[provider]
	}
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[provider]
	}

	var (
		gen Generator
		err error
	)
	switch provider {
	case ProviderAnthropic:
		gen = NewAnthropicClient(s.APIKey, model)
	case ProviderOpenAI, ProviderOpenRouter, ProviderDeepSeek:
		var c *OpenAIClient
		if c, err = NewOpenAIClient(s.APIKey, model, baseURL); err == nil {
			gen = c
		}
	case ProviderGemini:
		var c *GeminiClient
		if c, err = NewGeminiClient(ctx, s.APIKey, model); err == nil {
			gen = c
		}
	case ProviderOllama:
		var c *OllamaClient
		if c, err = NewOllamaClient(baseURL, model); err == nil {
			gen = c
		}
	default:
		err = fmt.Errorf("llm: unknown provider %q", s.Provider)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// Close releases backend resources when the generator holds any.
func Close(g Generator) {
	if c, ok := g.(interface{ Close() }); ok {
		c.Close()
	}
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a surrounding Markdown code fence from a reply.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// Truncate shortens s to n bytes for logging.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
