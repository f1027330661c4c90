// Package report writes analysis results as downloadable artifacts.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

const (
	SummaryFile    = "summary.txt"
	SuggestionFile = "suggestion.txt"
	DocxFile       = "report.docx"
)

// WriteText writes summary.txt and suggestion.txt into dir. Contents are the
// completion text byte for byte.
func WriteText(dir string, result domain.AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		body string
	}{
		{SummaryFile, result.Summary},
		{SuggestionFile, result.Suggestion},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteAll writes the text artifacts and report.docx into dir.
func WriteAll(dir, title string, result domain.AnalysisResult) ([]string, error) {
	written, err := WriteText(dir, result)
	if err != nil {
		return written, err
	}

	docxPath := filepath.Join(dir, DocxFile)
	if err := WriteDocx(docxPath, title, result); err != nil {
		return written, fmt.Errorf("write %s: %w", DocxFile, err)
	}
	return append(written, docxPath), nil
}
