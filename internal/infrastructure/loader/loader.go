// Package loader reads a corpus directory into Documents. Every
// candidate file produces an explicit per-file result so a malformed
// file never aborts ingestion and never disappears silently.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/raglab/docchat/internal/core/domain"
)

type Corpus struct {
	log *slog.Logger
}

func NewCorpus(log *slog.Logger) *Corpus {
	if log == nil {
		log = slog.Default()
	}
	return &Corpus{log: log}
}

// LoadDir walks dir and loads every supported file (.txt, .pdf,
// .docx). The returned report carries one entry per candidate file;
// only an unreadable root directory is an error.
func (c *Corpus) LoadDir(ctx context.Context, dir string) (*domain.IngestReport, error) {
	report := &domain.IngestReport{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			report.Files = append(report.Files, domain.FileResult{Path: path, Err: walkErr.Error()})
			c.log.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := extractors[ext]; !ok {
			return nil
		}

		docs, err := c.loadFile(path, ext)
		if err != nil {
			report.Files = append(report.Files, domain.FileResult{Path: path, Err: err.Error()})
			c.log.Warn("skipping document", "path", path, "error", err)
			return nil
		}

		report.Files = append(report.Files, domain.FileResult{Path: path, Documents: len(docs)})
		report.Documents = append(report.Documents, docs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk docs dir %s: %w", dir, err)
	}
	return report, nil
}

type extractFunc func(path string, content []byte) ([]domain.Document, error)

var extractors = map[string]extractFunc{
	".txt":  extractText,
	".pdf":  extractPDF,
	".docx": extractDOCX,
}

func (c *Corpus) loadFile(path, ext string) ([]domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	docs, err := extractors[ext](path, content)
	if err != nil {
		return nil, err
	}
	out := docs[:0]
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}
