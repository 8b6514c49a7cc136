// Package bootstrap wires a routing Service from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/intentmesh"
	"github.com/hupe1980/intentmesh/agent"
	"github.com/hupe1980/intentmesh/classifier"
	"github.com/hupe1980/intentmesh/config"
	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/memory"
	"github.com/hupe1980/intentmesh/model"
	anthropicmodel "github.com/hupe1980/intentmesh/model/anthropic"
	openaimodel "github.com/hupe1980/intentmesh/model/openai"
	"github.com/hupe1980/intentmesh/orchestrator"
	"github.com/hupe1980/intentmesh/retriever"
)

// Options tweaks wiring beyond what the configuration covers.
type Options struct {
	Logger logging.Logger
	// Model replaces the provider client built from cfg.LLM (tests, custom
	// providers). The API key is not required when set.
	Model model.Model
}

// Build loads the domain corpora and assembles classifier, agents,
// orchestrator and conversation store into a Service.
func Build(cfg *config.Config, optFns ...func(o *Options)) (*intentmesh.Service, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	hrDocs, err := loadCorpus(agent.DomainHR, cfg.Corpus.HRPaths, logger)
	if err != nil {
		return nil, err
	}
	techDocs, err := loadCorpus(agent.DomainTech, cfg.Corpus.TechPaths, logger)
	if err != nil {
		return nil, err
	}

	llm := opts.Model
	if llm == nil {
		llm, err = NewModel(cfg.LLM)
		// The heuristic router needs no model; the fallback route stays usable.
		if err != nil && !cfg.Router.UseHeuristicRouter {
			return nil, err
		}
	}

	var generator core.Generator
	if llm != nil {
		logger.Info("bootstrap.model", "provider", llm.Info().Provider, "model", llm.Info().Name)
		generator = agent.NewModelGenerator(llm, func(o *agent.ModelGeneratorOptions) { o.Logger = logger })
	} else {
		logger.Warn("bootstrap.model.unavailable", "error", err)
		generator = unavailableGenerator{err: err}
	}

	var router core.Classifier
	if cfg.Router.UseHeuristicRouter {
		router = classifier.NewHeuristic()
	} else {
		router = classifier.NewModelClassifier(llm, func(o *classifier.ModelClassifierOptions) { o.Logger = logger })
	}

	withK := func(o *retriever.Options) { o.K = cfg.Router.RetrieverK }

	hr := agent.NewDomainAgent(agent.DomainHR, retriever.NewKeywordRetriever(hrDocs, withK), generator,
		func(o *agent.DomainAgentOptions) {
			o.Instruction = agent.NewInstructionFromText(agent.HRPersona)
			o.Logger = logger
		})
	tech := agent.NewDomainAgent(agent.DomainTech, retriever.NewKeywordRetriever(techDocs, withK), generator,
		func(o *agent.DomainAgentOptions) {
			o.Instruction = agent.NewInstructionFromText(agent.TechPersona)
			o.Logger = logger
		})

	orch := orchestrator.New(router, hr, tech, func(o *orchestrator.Options) {
		o.IntentMinConfidence = cfg.Router.IntentMinConfidence
		o.ClassifyTimeout = cfg.ClassifyTimeout()
		o.GenerateTimeout = cfg.GenerateTimeout()
		o.Logger = logger
	})

	store := memory.NewInMemoryStore(func(o *memory.Options) { o.MaxHistoryTurns = cfg.Router.MaxHistoryTurns })

	return intentmesh.New(orch, func(o *intentmesh.Options) {
		o.Store = store
		o.Logger = logger
	}), nil
}

// NewModel builds the provider client named by cfg.Provider.
func NewModel(cfg config.LLMConfig) (model.Model, error) {
	if cfg.APIKey == "" {
		return nil, &config.ConfigError{Field: "llm.api_key", Message: fmt.Sprintf("no API key configured for provider %q", cfg.Provider)}
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
		}), nil
	default:
		return nil, &config.ConfigError{Field: "llm.provider", Message: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
}

// unavailableGenerator answers every call with the error that prevented
// building the model provider.
type unavailableGenerator struct {
	err error
}

func (g unavailableGenerator) Generate(context.Context, core.GenerationRequest) (core.RAGAnswer, error) {
	return core.RAGAnswer{}, g.err
}

func loadCorpus(domain string, paths []string, logger logging.Logger) ([]core.Document, error) {
	docs, err := retriever.LoadMarkdown(paths...)
	if err != nil {
		return nil, fmt.Errorf("load %s corpus: %w", domain, err)
	}
	if len(docs) == 0 {
		logger.Warn("bootstrap.corpus.empty", "domain", domain, "paths", paths)
	} else {
		logger.Info("bootstrap.corpus.loaded", "domain", domain, "chunks", len(docs))
	}
	return docs, nil
}
