package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/raglab/docchat/internal/core/domain"
)

// extractPDF produces one Document per page so page numbers survive
// into chunk metadata and citations.
func extractPDF(path string, content []byte) ([]domain.Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	docs := make([]domain.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		docs = append(docs, domain.Document{
			Content:  text,
			Metadata: domain.Metadata{Source: path, Page: i},
		})
	}
	return docs, nil
}
