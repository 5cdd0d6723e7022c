package usecase

import (
	"context"
	"fmt"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// QueryUseCase answers a single standalone question: retrieve, tag the
// context with [docN], generate. It implements ports.QuestionService.
type QueryUseCase struct {
	retriever ports.Retriever
	generator ports.AnswerGenerator
}

func NewQueryUseCase(retriever ports.Retriever, generator ports.AnswerGenerator) *QueryUseCase {
	return &QueryUseCase{retriever: retriever, generator: generator}
}

func (q *QueryUseCase) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	retrieved, err := q.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	// An empty retrieval still goes to the model, which is instructed
	// to admit when it does not know.
	contextBlock, citations := Assemble(retrieved, domain.TagDoc)
	text, err := q.generator.GenerateAnswer(ctx, question, contextBlock)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Text: text, Citations: citations, Sources: retrieved}, nil
}
