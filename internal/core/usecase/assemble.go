// Package usecase wires the core pipeline: retrieve, assemble context,
// generate, and the session and benchmark flows built on top of it.
package usecase

import (
	"fmt"
	"strings"

	"github.com/raglab/docchat/internal/core/domain"
)

// Assemble flattens ranked chunks into a single prompt context block
// and a citation map. Tags are 1-based in rank order and restart from
// 1 on every call. Chunk content is flattened to one line so block
// boundaries stay unambiguous. Empty input yields an empty block and
// an empty (non-nil) map.
func Assemble(retrieved []domain.RetrievedChunk, style domain.TagStyle) (string, domain.CitationMap) {
	citations := make(domain.CitationMap, len(retrieved))
	blocks := make([]string, 0, len(retrieved))
	for i, chunk := range retrieved {
		n := i + 1
		content := strings.ReplaceAll(chunk.Content, "\n", " ")
		blocks = append(blocks, fmt.Sprintf("[%s%d]=%s", style, n, content))

		source := chunk.Metadata.Source
		if source == "" {
			source = "unknown"
		}
		citations[n] = domain.Citation{Source: source, Page: chunk.Metadata.Page}
	}
	return strings.Join(blocks, "\n\n"), citations
}
