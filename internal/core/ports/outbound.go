package ports

import (
	"context"

	"github.com/raglab/docchat/internal/core/domain"
)

// CorpusLoader loads every supported file under a directory into
// Documents, reporting per-file outcomes instead of aborting on the
// first unreadable file.
type CorpusLoader interface {
	LoadDir(ctx context.Context, dir string) (*domain.IngestReport, error)
}

// Chunker splits loaded documents into overlapping retrieval units.
// Document boundaries are never crossed.
type Chunker interface {
	Split(docs []domain.Document) []domain.Chunk
}

// Embedder builds vectors for chunk and query text. Deterministic for
// a fixed model id, which the build/load equivalence of the index
// depends on.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// SimilarityIndex is the read side of the persistent vector index:
// top-k nearest neighbours by vector, ranked by descending similarity
// with ties broken by insertion order.
type SimilarityIndex interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
	Close() error
}

// Retriever answers a text query with at most k ranked chunks. An
// empty store yields an empty set, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, error)
}

// AnswerGenerator wraps the external language model. No retries: a
// failed call propagates to the caller.
type AnswerGenerator interface {
	// GenerateAnswer answers from citation-tagged context ([docN] tags).
	GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error)
	// GenerateChatAnswer additionally renders prior turns as a chat
	// transcript ahead of the question ([sourceN] tags).
	GenerateChatAnswer(ctx context.Context, question, contextBlock string, history []domain.ConversationTurn) (string, error)
}

// ResultWriter persists a benchmark sweep as a tabular file.
type ResultWriter interface {
	Write(path string, results []domain.BenchmarkResult) error
}
