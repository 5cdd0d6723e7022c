package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// fakeRetriever returns a canned result set for every question.
type fakeRetriever struct {
	chunks []domain.RetrievedChunk
	err    error
	calls  int
}

func (f *fakeRetriever) Retrieve(context.Context, string) ([]domain.RetrievedChunk, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type generateCall struct {
	question     string
	contextBlock string
	history      []domain.ConversationTurn
}

// fakeGenerator records prompts and answers with a fixed or derived
// reply.
type fakeGenerator struct {
	answer  string
	err     error
	perCall func(question string) string
	calls   []generateCall
}

func (f *fakeGenerator) GenerateAnswer(_ context.Context, question, contextBlock string) (string, error) {
	f.calls = append(f.calls, generateCall{question: question, contextBlock: contextBlock})
	if f.err != nil {
		return "", f.err
	}
	return f.reply(question), nil
}

func (f *fakeGenerator) GenerateChatAnswer(_ context.Context, question, contextBlock string, history []domain.ConversationTurn) (string, error) {
	snapshot := make([]domain.ConversationTurn, len(history))
	copy(snapshot, history)
	f.calls = append(f.calls, generateCall{question: question, contextBlock: contextBlock, history: snapshot})
	if f.err != nil {
		return "", f.err
	}
	return f.reply(question), nil
}

func (f *fakeGenerator) reply(question string) string {
	if f.perCall != nil {
		return f.perCall(question)
	}
	return f.answer
}

var _ ports.Retriever = (*fakeRetriever)(nil)
var _ ports.AnswerGenerator = (*fakeGenerator)(nil)

var errBackendDown = errors.New("backend down")

func rankedChunks(sources ...string) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, len(sources))
	for i, src := range sources {
		out[i] = domain.RetrievedChunk{
			Content:  fmt.Sprintf("content of %s", src),
			Metadata: domain.Metadata{Source: src},
		}
	}
	return out
}
