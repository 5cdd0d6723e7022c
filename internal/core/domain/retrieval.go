package domain

// TagStyle selects the citation tag family used in assembled context.
type TagStyle string

const (
	// TagDoc renders [doc1], [doc2], ... (single-turn mode).
	TagDoc TagStyle = "doc"
	// TagSource renders [source1], [source2], ... (conversational mode).
	TagSource TagStyle = "source"
)

// RetrievedChunk is one ranked search hit. Order within a retrieved
// set is rank order and drives citation numbering.
type RetrievedChunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Seq      int      `json:"seq"`
	Score    float64  `json:"score"`
}

// Citation points a 1-based tag index back at a chunk's source.
type Citation struct {
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
}

// CitationMap maps tag indices to sources. Keys are contiguous from 1
// and rebuilt from scratch for every assembly.
type CitationMap map[int]Citation

// Answer is the result of one question through the full pipeline.
type Answer struct {
	Text      string           `json:"text"`
	Citations CitationMap      `json:"citations"`
	Sources   []RetrievedChunk `json:"sources"`
}
