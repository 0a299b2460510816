// Package docparse extracts plain text from uploaded resume documents.
package docparse

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned for file extensions other than pdf, doc
// and docx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser satisfies consumer-side extraction interfaces with the package
// functions.
type Parser struct{}

func (Parser) Supported(fileName string) bool { return Supported(fileName) }

func (Parser) ExtractText(fileName string, data []byte) (string, error) {
	return ExtractText(fileName, data)
}

// ExtractText routes the document to a parser by file extension and returns
// its plain text.
func ExtractText(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf":
		return extractPDF(data)
	case "doc", "docx":
		return extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether the file name carries a parseable extension.
func Supported(fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf", "doc", "docx":
		return true
	}
	return false
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
