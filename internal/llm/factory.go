package llm

import (
	"errors"
	"fmt"
	"strings"
)

// New selects a gateway implementation by mode: "openai" requires an API
// key, "mock" is always available, and "auto" picks openai when a key is
// configured and falls back to the mock otherwise.
func New(mode string, cfg OpenAIConfig) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAI(cfg), nil
		}
		return NewMock(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("OPENAI_API_KEY is required for openai mode")
		}
		return NewOpenAI(cfg), nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unsupported llm mode %q", mode)
	}
}
