package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// ChatSession is a conversational pipeline with append-only history.
// Every question retrieves fresh context tagged [sourceN] starting
// from 1; earlier turns influence the answer only through the
// transcript handed to the generator. History is unbounded for the
// session's lifetime. Not safe for concurrent use.
type ChatSession struct {
	retriever ports.Retriever
	generator ports.AnswerGenerator
	log       *slog.Logger

	turns []domain.ConversationTurn
}

func NewChatSession(retriever ports.Retriever, generator ports.AnswerGenerator, log *slog.Logger) *ChatSession {
	if log == nil {
		log = slog.Default()
	}
	return &ChatSession{retriever: retriever, generator: generator, log: log}
}

// Ask runs one turn. A failed turn leaves the history untouched.
func (s *ChatSession) Ask(ctx context.Context, question string) (*domain.ConversationTurn, error) {
	retrieved, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	s.log.Debug("retrieved chat context", "question", question, "chunks", len(retrieved))

	contextBlock, citations := Assemble(retrieved, domain.TagSource)
	answer, err := s.generator.GenerateChatAnswer(ctx, question, contextBlock, s.turns)
	if err != nil {
		return nil, fmt.Errorf("generate chat answer: %w", err)
	}

	turn := domain.ConversationTurn{Question: question, Answer: answer, Citations: citations}
	s.turns = append(s.turns, turn)
	return &turn, nil
}

// Turns returns a copy of the history so far.
func (s *ChatSession) Turns() []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}
