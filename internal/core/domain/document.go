package domain

// Metadata identifies where a piece of text came from. Page is 1-based
// and zero for formats without pagination.
type Metadata struct {
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
}

// Document is one loaded unit of source text, immutable once loaded.
// Paginated formats produce one Document per page.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Chunk is a bounded span of a Document's text, the unit that gets
// embedded and retrieved. Seq is the chunk's position within its
// source document.
type Chunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Seq      int      `json:"seq"`
}

// FileResult records the outcome of loading one candidate file.
type FileResult struct {
	Path      string `json:"path"`
	Documents int    `json:"documents"`
	Err       string `json:"error,omitempty"`
}

// IngestReport aggregates per-file load outcomes so skipped files stay
// observable instead of disappearing into logs.
type IngestReport struct {
	Files     []FileResult `json:"files"`
	Documents []Document   `json:"-"`
}

func (r *IngestReport) Loaded() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == "" {
			n++
		}
	}
	return n
}

func (r *IngestReport) Failed() int {
	return len(r.Files) - r.Loaded()
}
