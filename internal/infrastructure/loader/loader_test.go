package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDirCollectsTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "first document")
	writeFile(t, filepath.Join(dir, "nested", "b.txt"), "second document")
	writeFile(t, filepath.Join(dir, "ignored.csv"), "not a supported format")

	report, err := NewCorpus(nil).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(report.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(report.Documents))
	}
	if report.Loaded() != 2 || report.Failed() != 0 {
		t.Fatalf("unexpected report totals: loaded=%d failed=%d", report.Loaded(), report.Failed())
	}
	for _, doc := range report.Documents {
		if doc.Metadata.Source == "" {
			t.Fatalf("document lost its source metadata: %+v", doc)
		}
	}
}

func TestLoadDirReportsFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.txt"), "fine content")
	// Invalid utf-8 makes the text loader fail for this file.
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0xfd}, 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}

	report, err := NewCorpus(nil).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if report.Loaded() != 1 || report.Failed() != 1 {
		t.Fatalf("expected 1 loaded and 1 failed, got loaded=%d failed=%d", report.Loaded(), report.Failed())
	}
	if len(report.Documents) != 1 {
		t.Fatalf("expected the good document to survive, got %d documents", len(report.Documents))
	}
	var failure string
	for _, f := range report.Files {
		if f.Err != "" {
			failure = f.Path
		}
	}
	if !strings.HasSuffix(failure, "bad.txt") {
		t.Fatalf("expected bad.txt in failure report, got %q", failure)
	}
}

func TestLoadDirMissingRootFails(t *testing.T) {
	_, err := NewCorpus(nil).LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatalf("expected error for missing corpus directory")
	}
}

func TestExtractDOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p w:rsidR="00A"><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve">docx world</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	raw := buildDocx(t, map[string]string{docxDocumentXMLPath: docXML})

	docs, err := extractDOCX("report.docx", raw)
	if err != nil {
		t.Fatalf("extractDOCX() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if docs[0].Content != "Hello docx world" {
		t.Fatalf("unexpected content: %q", docs[0].Content)
	}
	if docs[0].Metadata.Source != "report.docx" {
		t.Fatalf("unexpected source: %q", docs[0].Metadata.Source)
	}
}

func TestExtractDOCXHonoursContentTypes(t *testing.T) {
	types := `<Types><Override PartName="/word/doc2.xml" ContentType="` + docxMainContentType + `"/></Types>`
	docXML := `<w:document><w:body><w:p><w:r><w:t>alternate part</w:t></w:r></w:p></w:body></w:document>`
	raw := buildDocx(t, map[string]string{
		contentTypesPath: types,
		"word/doc2.xml":  docXML,
	})

	docs, err := extractDOCX("alt.docx", raw)
	if err != nil {
		t.Fatalf("extractDOCX() error = %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "alternate part" {
		t.Fatalf("expected content from overridden part, got %+v", docs)
	}
}

func TestExtractDOCXDecodesEntities(t *testing.T) {
	docXML := `<w:document><w:body><w:p><w:r>` +
		`<w:t>Q&amp;A: 5 &lt; 7 &amp;&amp; it&#8217;s fine</w:t>` +
		`</w:r></w:p></w:body></w:document>`
	raw := buildDocx(t, map[string]string{docxDocumentXMLPath: docXML})

	docs, err := extractDOCX("faq.docx", raw)
	if err != nil {
		t.Fatalf("extractDOCX() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if docs[0].Content != "Q&A: 5 < 7 && it’s fine" {
		t.Fatalf("entities not decoded: %q", docs[0].Content)
	}
}

func TestExtractDOCXRejectsNonZip(t *testing.T) {
	if _, err := extractDOCX("x.docx", []byte("plainly not a zip")); err == nil {
		t.Fatalf("expected error for non-zip docx")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
