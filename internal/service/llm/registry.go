package llm

import (
	"fmt"
	"log/slog"

	"clarity/internal/config"
	domainllm "clarity/internal/domain/services/llm"
	"clarity/internal/service/llm/providers/anthropic"
	"clarity/internal/service/llm/providers/lorem"
)

// Registry holds the configured inference providers and routes model
// strings to them.
type Registry struct {
	providers map[string]domainllm.Provider
}

// SetupProviders creates the provider registry from configuration. The
// lorem provider is always registered so dev and tests run without
// credentials; Anthropic is added when an API key is configured.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	registry := &Registry{providers: make(map[string]domainllm.Provider)}

	loremProvider := lorem.NewProvider()
	registry.providers[loremProvider.Name()] = loremProvider

	if cfg.AnthropicAPIKey != "" {
		anthropicProvider, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("setup anthropic provider: %w", err)
		}
		registry.providers[anthropicProvider.Name()] = anthropicProvider
	}

	logger.Info("llm providers configured",
		"anthropic", cfg.AnthropicAPIKey != "",
		"lorem", true,
	)
	return registry, nil
}

// Register adds (or replaces) a provider. Tests use this to install
// fakes.
func (r *Registry) Register(p domainllm.Provider) {
	r.providers[p.Name()] = p
}

// ProviderFor resolves the provider serving the given model string and
// returns the canonical model name (provider prefix stripped).
func (r *Registry) ProviderFor(model string) (domainllm.Provider, string, error) {
	name, canonical, err := ParseModel(model)
	if err != nil {
		return nil, "", err
	}

	provider, ok := r.providers[name]
	if !ok {
		return nil, "", fmt.Errorf("provider %q is not configured", name)
	}
	if !provider.SupportsModel(canonical) {
		return nil, "", fmt.Errorf("model %q is not supported by provider %q", canonical, name)
	}
	return provider, canonical, nil
}
