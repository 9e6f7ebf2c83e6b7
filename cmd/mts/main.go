package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/mtscreen/internal/adapter/cli"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/anthropic"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/gemini"
	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/ollama"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/openai"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/static"
	"github.com/bkyoung/mtscreen/internal/adapter/observability"
	"github.com/bkyoung/mtscreen/internal/adapter/output/json"
	"github.com/bkyoung/mtscreen/internal/adapter/output/markdown"
	storeAdapter "github.com/bkyoung/mtscreen/internal/adapter/store"
	"github.com/bkyoung/mtscreen/internal/adapter/store/sqlite"
	"github.com/bkyoung/mtscreen/internal/config"
	"github.com/bkyoung/mtscreen/internal/redaction"
	"github.com/bkyoung/mtscreen/internal/store"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
	"github.com/bkyoung/mtscreen/internal/usecase/narrative"
	"github.com/bkyoung/mtscreen/internal/usecase/semantic"
	"github.com/bkyoung/mtscreen/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "mts",
		EnvPrefix:   "MTS",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	obs := buildObservability(cfg.Observability)
	if obs.logger != nil {
		if hash, err := store.CalculateConfigHash(cfg); err == nil {
			obs.logger.LogInfo(ctx, "configuration loaded", map[string]interface{}{"configHash": hash})
		}
	}

	embedder := buildEmbedder(cfg, obs)
	equipmentStore := semantic.NewReferenceStore(semantic.AxisEquipment, embedder, semantic.EquipmentExemplars)
	modTypeStore := semantic.NewReferenceStore(semantic.AxisModificationType, embedder, semantic.ModificationTypeExemplars)

	equipment := semantic.NewClassifier(embedder, equipmentStore)
	modType := semantic.NewClassifier(embedder, modTypeStore)
	if cfg.Semantic.MaxAlternatives > 0 {
		equipment.SetMaxAlternatives(cfg.Semantic.MaxAlternatives)
		modType.SetMaxAlternatives(cfg.Semantic.MaxAlternatives)
	}
	if obs.logger != nil {
		equipment.SetLogger(obs.logger)
		modType.SetLogger(obs.logger)
	}

	var analyzer classify.NarrativeAnalyzer
	if cfg.Narrative.Enabled {
		if provider := buildNarrativeProvider(cfg, obs); provider != nil {
			analyzer = narrative.NewAnalyzer(provider)
		}
	}

	// Instantiate redaction engine if enabled
	var redactor classify.Redactor
	if cfg.Redaction.Enabled {
		if len(cfg.Redaction.ExtraPatterns) > 0 {
			engine, err := redaction.NewEngineWithPatterns(cfg.Redaction.ExtraPatterns)
			if err != nil {
				return fmt.Errorf("redaction config invalid: %w", err)
			}
			redactor = engine
		} else {
			redactor = redaction.NewEngine()
		}
	}

	// Initialize store if enabled
	var pipelineStore classify.Store
	var history cli.HistoryReader
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				bridge := storeAdapter.NewBridge(sqliteStore)
				pipelineStore = bridge
				history = sqliteStore
				defer bridge.Close()
			}
		}
	}

	var pipelineLogger classify.Logger
	if obs.logger != nil {
		pipelineLogger = observability.NewPipelineLogger(obs.logger)
	}

	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment:        equipment,
		ModType:          modType,
		Narrative:        analyzer,
		Redactor:         redactor,
		Store:            pipelineStore,
		Logger:           pipelineLogger,
		SemanticTimeout:  parseTimeout(cfg.Embedding.Timeout, classify.DefaultSemanticTimeout),
		NarrativeTimeout: parseTimeout(cfg.Narrative.Timeout, classify.DefaultNarrativeTimeout),
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Classifier:    pipeline,
		History:       history,
		JSON:          json.NewWriter(),
		Markdown:      markdown.NewWriter(),
		DefaultOutput: cfg.Output.Directory,
		DefaultFormat: cfg.Output.Format,
		Version:       version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mts"))
	}
	return paths
}

// observabilityComponents holds shared observability instances
type observabilityComponents struct {
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
	pricing llmhttp.Pricing
}

// buildObservability creates observability components based on configuration
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	var logger llmhttp.Logger
	var metrics llmhttp.Metrics

	// Create logger if enabled
	if cfg.Logging.Enabled {
		logLevel := llmhttp.LogLevelInfo
		switch cfg.Logging.Level {
		case "debug":
			logLevel = llmhttp.LogLevelDebug
		case "error":
			logLevel = llmhttp.LogLevelError
		}

		logFormat := llmhttp.LogFormatHuman
		if cfg.Logging.Format == "json" {
			logFormat = llmhttp.LogFormatJSON
		}

		logger = llmhttp.NewDefaultLogger(logLevel, logFormat, cfg.Logging.RedactAPIKeys)
	}

	// Create metrics tracker if enabled
	if cfg.Metrics.Enabled {
		metrics = llmhttp.NewDefaultMetrics()
	}

	return observabilityComponents{
		logger:  logger,
		metrics: metrics,
		// Always create pricing calculator (used for cost tracking)
		pricing: llmhttp.NewDefaultPricing(),
	}
}

// buildEmbedder selects the embedding client behind the semantic axes.
// Missing credentials degrade to the offline hash embedder so screening
// still produces a decision.
func buildEmbedder(cfg config.Config, obs observabilityComponents) semantic.Embedder {
	providerCfg := cfg.Providers[cfg.Embedding.Provider]

	switch cfg.Embedding.Provider {
	case "openai":
		if providerCfg.APIKey == "" {
			log.Println("OpenAI: No API key provided, using offline embedder")
			return static.NewEmbedder(0)
		}
		client := openai.NewHTTPClient(providerCfg.APIKey, providerCfg.Model)
		if providerCfg.BaseURL != "" {
			client.SetBaseURL(providerCfg.BaseURL)
		}
		client.SetTimeout(llmhttp.ParseTimeout(providerCfg.Timeout, cfg.HTTP.Timeout, 30*time.Second))
		client.SetRetryConfig(llmhttp.BuildRetryConfig(providerCfg, cfg.HTTP))
		client.SetObservability(obs.logger, obs.metrics, obs.pricing)
		return client

	case "ollama":
		host := providerCfg.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		client := ollama.NewHTTPClient(host, providerCfg.Model)
		client.SetTimeout(llmhttp.ParseTimeout(providerCfg.Timeout, cfg.HTTP.Timeout, 120*time.Second))
		client.SetRetryConfig(llmhttp.BuildRetryConfig(providerCfg, cfg.HTTP))
		return client

	case "static", "":
		return static.NewEmbedder(0)

	default:
		log.Printf("warning: unsupported embedding provider %q, using offline embedder. Supported providers: openai, ollama, static", cfg.Embedding.Provider)
		return static.NewEmbedder(0)
	}
}

// buildNarrativeProvider selects the LLM behind the narrative assessment.
// Missing credentials degrade to the canned offline assessment with a
// warning rather than disabling the source outright.
func buildNarrativeProvider(cfg config.Config, obs observabilityComponents) narrative.Provider {
	name := cfg.Narrative.Provider
	providerCfg := cfg.Providers[name]

	switch name {
	case "anthropic":
		if providerCfg.APIKey == "" {
			log.Printf("warning: narrative provider %q missing API key (set ANTHROPIC_API_KEY or providers.anthropic.apiKey), using offline assessment", name)
			return static.NewProvider()
		}
		client := anthropic.NewHTTPClient(providerCfg.APIKey, providerCfg.Model)
		if providerCfg.BaseURL != "" {
			client.SetBaseURL(providerCfg.BaseURL)
		}
		client.SetTimeout(llmhttp.ParseTimeout(providerCfg.Timeout, cfg.HTTP.Timeout, 60*time.Second))
		client.SetRetryConfig(llmhttp.BuildRetryConfig(providerCfg, cfg.HTTP))
		client.SetObservability(obs.logger, obs.metrics, obs.pricing)
		return anthropic.NewProvider(client)

	case "gemini":
		if providerCfg.APIKey == "" {
			log.Printf("warning: narrative provider %q missing API key (set GEMINI_API_KEY or providers.gemini.apiKey), using offline assessment", name)
			return static.NewProvider()
		}
		client := gemini.NewHTTPClient(providerCfg.APIKey, providerCfg.Model)
		if providerCfg.BaseURL != "" {
			client.SetBaseURL(providerCfg.BaseURL)
		}
		client.SetTimeout(llmhttp.ParseTimeout(providerCfg.Timeout, cfg.HTTP.Timeout, 60*time.Second))
		client.SetRetryConfig(llmhttp.BuildRetryConfig(providerCfg, cfg.HTTP))
		client.SetObservability(obs.logger, obs.metrics, obs.pricing)
		return gemini.NewProvider(client)

	case "static":
		return static.NewProvider()

	default:
		log.Printf("warning: unsupported narrative provider %q, narrative assessment disabled. Supported providers: anthropic, gemini, static", name)
		return nil
	}
}

// parseTimeout parses a configured duration, falling back to the default
// with a warning for invalid values.
func parseTimeout(value string, defaultVal time.Duration) time.Duration {
	if value == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("warning: invalid timeout %q, using default %s", value, defaultVal)
		return defaultVal
	}
	return parsed
}

// Compile-time interface compliance checks
var _ cli.Classifier = (*classify.Pipeline)(nil)
var _ cli.HistoryReader = (*sqlite.Store)(nil)
var _ cli.ReportWriter = (*json.Writer)(nil)
var _ cli.ReportWriter = (*markdown.Writer)(nil)
var _ classify.SemanticClassifier = (*semantic.Classifier)(nil)
var _ classify.NarrativeAnalyzer = (*narrative.Analyzer)(nil)
var _ classify.Redactor = (*redaction.Engine)(nil)
var _ classify.Store = (*storeAdapter.Bridge)(nil)
var _ semantic.Embedder = (*openai.HTTPClient)(nil)
var _ semantic.Embedder = (*ollama.HTTPClient)(nil)
var _ semantic.Embedder = (*static.Embedder)(nil)
var _ narrative.Provider = (*anthropic.Provider)(nil)
var _ narrative.Provider = (*gemini.Provider)(nil)
var _ narrative.Provider = (*static.Provider)(nil)
