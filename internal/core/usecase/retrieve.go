package usecase

import (
	"context"
	"fmt"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// Retriever embeds a question and asks the similarity index for the
// top k chunks. It implements ports.Retriever.
type Retriever struct {
	embedder ports.Embedder
	index    ports.SimilarityIndex
	k        int
}

func NewRetriever(embedder ports.Embedder, index ports.SimilarityIndex, k int) (*Retriever, error) {
	if k <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new retriever",
			fmt.Errorf("k must be positive, got %d", k))
	}
	return &Retriever{embedder: embedder, index: index, k: k}, nil
}

func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, error) {
	vec, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	return r.index.Search(ctx, vec, r.k)
}
