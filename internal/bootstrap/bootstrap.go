// Package bootstrap assembles the pipeline from configuration:
// corpus loading, index build-or-load, retrieval, and generation.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raglab/docchat/internal/config"
	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
	"github.com/raglab/docchat/internal/core/usecase"
	"github.com/raglab/docchat/internal/infrastructure/chunking"
	"github.com/raglab/docchat/internal/infrastructure/llm/ollama"
	"github.com/raglab/docchat/internal/infrastructure/loader"
	"github.com/raglab/docchat/internal/infrastructure/resilience"
	"github.com/raglab/docchat/internal/infrastructure/vector/sqlitevec"
	"github.com/raglab/docchat/internal/observability/metrics"
)

// App holds the wired pipeline. The retriever and generator factory
// are shared; chat sessions are created per interaction.
type App struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.PipelineMetrics

	Embedder ports.Embedder
	Query    ports.QuestionService

	// NewGenerator builds a generator bound to an arbitrary language
	// model, sharing the pipeline's circuit breaker state.
	NewGenerator usecase.GeneratorFactory

	retriever ports.Retriever
	store     *sqlitevec.Store
}

// New builds the whole pipeline. The document corpus is loaded and
// chunked only when no persisted index exists for the configured
// collection; otherwise the index is reopened as-is.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, service string) (*App, error) {
	exec := resilience.NewExecutor(resilience.DefaultConfig())
	client := ollama.New(cfg.OllamaURL, cfg.GenModel, cfg.EmbedModel, exec)
	embedder := ollama.NewEmbedder(client)
	pipelineMetrics := metrics.NewPipelineMetrics(service)

	indexCfg := sqlitevec.Config{
		PersistPath:        cfg.PersistPath,
		Collection:         cfg.CollectionName,
		EmbedBatchSize:     cfg.EmbedBatchSize,
		EmbedBatchesPerSec: cfg.EmbedBatchesPerSec,
	}

	var chunks []domain.Chunk
	if !sqlitevec.Exists(indexCfg) {
		loaded, report, err := ingestCorpus(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		for _, file := range report.Files {
			pipelineMetrics.CountIngestedFile(service, file.Err != "")
		}
		chunks = loaded
	}

	store, err := sqlitevec.OpenOrBuild(ctx, indexCfg, chunks, embedder, log)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}

	retriever, err := usecase.NewRetriever(embedder, store, cfg.TopK)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	factory := func(model string) ports.AnswerGenerator {
		return ollama.NewGenerator(ollama.New(cfg.OllamaURL, model, cfg.EmbedModel, exec))
	}

	return &App{
		Config:       cfg,
		Log:          log,
		Metrics:      pipelineMetrics,
		Embedder:     embedder,
		Query:        usecase.NewQueryUseCase(retriever, ollama.NewGenerator(client)),
		NewGenerator: factory,
		retriever:    retriever,
		store:        store,
	}, nil
}

func ingestCorpus(ctx context.Context, cfg config.Config, log *slog.Logger) ([]domain.Chunk, *domain.IngestReport, error) {
	splitter, err := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}
	ingest := usecase.NewIngestUseCase(loader.NewCorpus(log), splitter, log)
	return ingest.LoadChunks(ctx, cfg.DocsPath)
}

// NewChatSession starts a fresh conversational session on the shared
// retriever with the configured generation model.
func (a *App) NewChatSession() ports.ChatService {
	return usecase.NewChatSession(a.retriever, a.NewGenerator(a.Config.GenModel), a.Log)
}

// NewBenchmarkHarness builds a sweep runner on the shared retriever.
func (a *App) NewBenchmarkHarness() ports.BenchmarkRunner {
	return usecase.NewBenchmarkHarness(a.retriever, a.NewGenerator, a.Config.EmbedModel, a.Log)
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
