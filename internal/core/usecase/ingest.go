package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

// IngestUseCase turns a document directory into chunks ready for
// indexing.
type IngestUseCase struct {
	corpus  ports.CorpusLoader
	chunker ports.Chunker
	log     *slog.Logger
}

func NewIngestUseCase(corpus ports.CorpusLoader, chunker ports.Chunker, log *slog.Logger) *IngestUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &IngestUseCase{corpus: corpus, chunker: chunker, log: log}
}

// LoadChunks loads and splits every supported file under dir. Files
// that fail to load are reported, not fatal; only an unreadable root
// is an error.
func (u *IngestUseCase) LoadChunks(ctx context.Context, dir string) ([]domain.Chunk, *domain.IngestReport, error) {
	report, err := u.corpus.LoadDir(ctx, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}

	chunks := u.chunker.Split(report.Documents)
	u.log.Info("corpus ingested",
		"dir", dir,
		"files_loaded", report.Loaded(),
		"files_failed", report.Failed(),
		"documents", len(report.Documents),
		"chunks", len(chunks))
	return chunks, report, nil
}
