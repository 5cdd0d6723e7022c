package ports

import (
	"context"

	"github.com/raglab/docchat/internal/core/domain"
)

// QuestionService is the inbound contract for single-turn RAG answers.
type QuestionService interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

// ChatService is the inbound contract for a conversational session.
// A session holds its own append-only history; it is not shared
// between interactions.
type ChatService interface {
	Ask(ctx context.Context, question string) (*domain.ConversationTurn, error)
	Turns() []domain.ConversationTurn
}

// BenchmarkRunner sweeps language models over a fixed question set.
type BenchmarkRunner interface {
	Run(ctx context.Context, models, questions []string) []domain.BenchmarkResult
}
