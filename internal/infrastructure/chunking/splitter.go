package chunking

import (
	"fmt"
	"strings"

	"github.com/raglab/docchat/internal/core/domain"
)

// separators is the split priority: paragraphs first, then lines,
// sentences, and finally single words.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits documents into chunks of at most ChunkSize tokens,
// where consecutive chunks of one document share the last Overlap
// tokens of the predecessor. Tokens are whitespace-delimited words;
// chunk content is emitted space-normalized so the overlap relation
// holds exactly on the token level.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunking: chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunking: overlap must satisfy 0 <= overlap < chunk size, got overlap=%d size=%d", overlap, chunkSize)
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}, nil
}

// Split chunks every document independently; chunk boundaries never
// cross documents and every chunk inherits its document's metadata.
func (s *Splitter) Split(docs []domain.Document) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(docs))
	for _, doc := range docs {
		out = append(out, s.splitDocument(doc)...)
	}
	return out
}

func (s *Splitter) splitDocument(doc domain.Document) []domain.Chunk {
	units := splitUnits(doc.Content, 0, s.unitBudget())
	if len(units) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	var cur []string
	seq := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Content:  strings.Join(cur, " "),
			Metadata: doc.Metadata,
			Seq:      seq,
		})
		seq++
		// The next chunk starts with the tail of this one.
		carry := cur
		if len(carry) > s.Overlap {
			carry = carry[len(carry)-s.Overlap:]
		}
		cur = append([]string(nil), carry...)
	}

	carried := 0
	for _, unit := range units {
		tokens := strings.Fields(unit)
		if len(tokens) == 0 {
			continue
		}
		if len(cur) > carried && len(cur)+len(tokens) > s.ChunkSize {
			flush()
			carried = len(cur)
		}
		cur = append(cur, tokens...)
	}
	if len(cur) > carried {
		flush()
	}
	return chunks
}

// unitBudget caps individual spans so a carried overlap prefix plus
// one span always fits the chunk size.
func (s *Splitter) unitBudget() int {
	return s.ChunkSize - s.Overlap
}

// splitUnits recursively splits text at decreasing separator
// granularity until every span fits the token budget.
func splitUnits(text string, level, budget int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if tokenCount(text) <= budget {
		return []string{text}
	}
	if level >= len(separators) {
		return hardSplit(text, budget)
	}

	parts := strings.SplitAfter(text, separators[level])
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, splitUnits(part, level+1, budget)...)
	}
	return out
}

// hardSplit slices a span with no remaining separators into fixed
// token windows. Only reachable for pathological single words.
func hardSplit(text string, budget int) []string {
	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens)/budget+1)
	for start := 0; start < len(tokens); start += budget {
		end := start + budget
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, strings.Join(tokens[start:end], " "))
	}
	return out
}

func tokenCount(text string) int {
	return len(strings.Fields(text))
}
