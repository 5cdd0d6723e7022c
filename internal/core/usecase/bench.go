package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// GeneratorFactory builds an answer generator bound to one language
// model.
type GeneratorFactory func(model string) ports.AnswerGenerator

// BenchmarkHarness sweeps language models over a fixed question set.
// Each model gets a fresh conversational session, so history
// accumulates across the questions of one model and resets between
// models. Retrieval is shared: the embedding model is fixed for the
// whole sweep. It implements ports.BenchmarkRunner.
type BenchmarkHarness struct {
	retriever      ports.Retriever
	newGenerator   GeneratorFactory
	embeddingModel string
	log            *slog.Logger
}

func NewBenchmarkHarness(retriever ports.Retriever, newGenerator GeneratorFactory, embeddingModel string, log *slog.Logger) *BenchmarkHarness {
	if log == nil {
		log = slog.Default()
	}
	return &BenchmarkHarness{
		retriever:      retriever,
		newGenerator:   newGenerator,
		embeddingModel: embeddingModel,
		log:            log,
	}
}

// Run produces one result per (model, question) cell in model-major
// order. A failed cell records its error and the sweep continues.
func (h *BenchmarkHarness) Run(ctx context.Context, models, questions []string) []domain.BenchmarkResult {
	results := make([]domain.BenchmarkResult, 0, len(models)*len(questions))
	for _, model := range models {
		session := NewChatSession(h.retriever, h.newGenerator(model), h.log)
		h.log.Info("benchmarking model", "llm", model, "questions", len(questions))

		for _, question := range questions {
			cell := domain.BenchmarkResult{
				EmbeddingModel: h.embeddingModel,
				LLM:            model,
				Question:       question,
			}

			start := time.Now()
			turn, err := session.Ask(ctx, question)
			cell.LatencySeconds = time.Since(start).Seconds()
			if err != nil {
				cell.Err = err.Error()
				h.log.Warn("benchmark cell failed", "llm", model, "question", question, "error", err)
			} else {
				cell.Answer = turn.Answer
			}
			results = append(results, cell)
		}
	}
	return results
}
