package config

// Config represents the full application configuration.
type Config struct {
	Providers     map[string]ProviderConfig `yaml:"providers"`
	HTTP          HTTPConfig                `yaml:"http"`
	Embedding     EmbeddingConfig           `yaml:"embedding"`
	Narrative     NarrativeConfig           `yaml:"narrative"`
	Semantic      SemanticConfig            `yaml:"semantic"`
	Redaction     RedactionConfig           `yaml:"redaction"`
	Store         StoreConfig               `yaml:"store"`
	Output        OutputConfig              `yaml:"output"`
	Observability ObservabilityConfig       `yaml:"observability"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`

	// HTTP overrides (optional, use global HTTP config if not set)
	Timeout        *string `yaml:"timeout,omitempty"`
	MaxRetries     *int    `yaml:"maxRetries,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// EmbeddingConfig selects the provider used for semantic classification.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // openai, ollama, static
	Timeout  string `yaml:"timeout"`  // Budget for one classification axis
}

// NarrativeConfig selects the provider used for narrative assessment.
// Narrative assessment is optional; when disabled the synthesizer works
// from the decision tree and semantic evidence alone.
type NarrativeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // anthropic, gemini, static
	Timeout  string `yaml:"timeout"`
}

// SemanticConfig tunes the nearest-neighbor classifier.
type SemanticConfig struct {
	// MaxAlternatives caps how many runner-up labels each verdict carries.
	MaxAlternatives int `yaml:"maxAlternatives"`
}

// RedactionConfig configures scrubbing of modification text before it
// leaves the process.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`

	// ExtraPatterns are additional regular expressions to redact, on top
	// of the built-in credential and identifier patterns.
	ExtraPatterns []string `yaml:"extraPatterns"`
}

// StoreConfig configures the classification history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format"` // json, markdown
}

// ObservabilityConfig configures logging, metrics, and cost tracking.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`         // debug, info, error
	Format        string `yaml:"format"`        // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"` // Redact API keys in logs
}

// MetricsConfig configures performance and cost metrics tracking.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.HTTP = chooseHTTP(base.HTTP, overlay.HTTP)
	result.Embedding = chooseEmbedding(base.Embedding, overlay.Embedding)
	result.Narrative = chooseNarrative(base.Narrative, overlay.Narrative)
	result.Semantic = chooseSemantic(base.Semantic, overlay.Semantic)
	result.Redaction = chooseRedaction(base.Redaction, overlay.Redaction)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)
	result.Providers = mergeProviders(base.Providers, overlay.Providers)

	return result
}

func mergeProviders(base, overlay map[string]ProviderConfig) map[string]ProviderConfig {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	result := make(map[string]ProviderConfig, len(base)+len(overlay))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range overlay {
		result[key] = value
	}
	return result
}

func chooseHTTP(base, overlay HTTPConfig) HTTPConfig {
	if overlay.Timeout != "" || overlay.MaxRetries != 0 || overlay.InitialBackoff != "" || overlay.MaxBackoff != "" || overlay.BackoffMultiplier != 0 {
		return overlay
	}
	return base
}

func chooseEmbedding(base, overlay EmbeddingConfig) EmbeddingConfig {
	if overlay.Provider != "" || overlay.Timeout != "" {
		return overlay
	}
	return base
}

func chooseNarrative(base, overlay NarrativeConfig) NarrativeConfig {
	if overlay.Enabled || overlay.Provider != "" || overlay.Timeout != "" {
		return overlay
	}
	return base
}

func chooseSemantic(base, overlay SemanticConfig) SemanticConfig {
	if overlay.MaxAlternatives != 0 {
		return overlay
	}
	return base
}

func chooseRedaction(base, overlay RedactionConfig) RedactionConfig {
	if overlay.Enabled || len(overlay.ExtraPatterns) > 0 {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	if overlay.Directory != "" || overlay.Format != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base

	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	if overlay.Metrics.Enabled {
		result.Metrics = overlay.Metrics
	}

	return result
}
