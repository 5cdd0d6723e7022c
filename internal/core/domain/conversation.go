package domain

// ConversationTurn is one completed question/answer exchange.
// Immutable once appended to a session; Citations carries the tag
// numbering that was valid for this turn only.
type ConversationTurn struct {
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Citations CitationMap `json:"citations"`
}

// BenchmarkResult is one timed (model, question) cell of a benchmark
// sweep. LatencySeconds is wall-clock around the full
// retrieve+assemble+generate path and is never negative. Err is set
// when the cell's generation failed; the sweep still emits the cell.
type BenchmarkResult struct {
	EmbeddingModel string  `json:"embedding_model"`
	LLM            string  `json:"llm"`
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	LatencySeconds float64 `json:"latency_seconds"`
	Err            string  `json:"error,omitempty"`
}
