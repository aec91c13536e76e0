package llm

import (
	"fmt"
	"strings"
)

// ParseModel maps a model string to the provider that serves it.
//
// Supported forms:
//   - "claude-*" - Anthropic models (e.g. "claude-haiku-4-5")
//   - "lorem-*"  - mock provider for development and tests
//   - "anthropic/<model>" - explicit provider prefix
func ParseModel(modelStr string) (provider string, model string, err error) {
	if modelStr == "" {
		return "", "", fmt.Errorf("model string is empty")
	}

	if prefix, rest, ok := strings.Cut(modelStr, "/"); ok {
		if rest == "" {
			return "", "", fmt.Errorf("model string %q has no model after the provider prefix", modelStr)
		}
		switch prefix {
		case "anthropic", "lorem":
			return prefix, rest, nil
		default:
			return "", "", fmt.Errorf("unknown provider prefix %q", prefix)
		}
	}

	switch {
	case strings.HasPrefix(modelStr, "claude-"):
		return "anthropic", modelStr, nil
	case strings.HasPrefix(modelStr, "lorem-"):
		return "lorem", modelStr, nil
	default:
		return "", "", fmt.Errorf("cannot infer provider for model %q", modelStr)
	}
}
