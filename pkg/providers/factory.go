package providers

import (
	"fmt"
	"strings"

	"github.com/myspotipal/spotipal/pkg/config"
	anthropicprovider "github.com/myspotipal/spotipal/pkg/providers/anthropic"
	openaisdk "github.com/myspotipal/spotipal/pkg/providers/openai_sdk"
)

// CreateProvider picks a concrete provider from the configured model name.
// Models prefixed "claude" (or "anthropic/") go to the Anthropic SDK,
// everything else to the OpenAI-compatible SDK.
func CreateProvider(cfg *config.Config) (LLMProvider, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.LLM.Model))
	if model == "" {
		return nil, fmt.Errorf("llm.model is not configured")
	}

	if strings.HasPrefix(model, "claude") || strings.HasPrefix(model, "anthropic/") {
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("llm.api_key is required for Anthropic models")
		}
		return anthropicprovider.NewProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL), nil
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm.api_key is required")
	}
	return openaisdk.NewProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL), nil
}
