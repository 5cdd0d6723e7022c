package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/raglab/docchat/internal/core/domain"
)

func extractText(path string, content []byte) ([]domain.Document, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("not valid utf-8 text: %s", path)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, nil
	}
	return []domain.Document{{
		Content:  text,
		Metadata: domain.Metadata{Source: path},
	}}, nil
}
