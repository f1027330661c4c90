package extractor

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// extractImage runs tesseract OCR on the staged image.
func (e *implExtractor) extractImage(ctx context.Context, file domain.UploadedFile, lang string) (string, error) {
	ocrLang := e.ocrLanguage(lang)

	// tesseract <file> stdout -l <lang>
	out, err := e.runTool(ctx, file, e.cfg.Tools.Tesseract, func(path string) []string {
		return []string{path, "stdout", "-l", ocrLang}
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ocrLanguage maps an ISO 639-1 hint to a tesseract language pack.
func (e *implExtractor) ocrLanguage(hint string) string {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "":
		if e.cfg.OCRLanguage != "" {
			return e.cfg.OCRLanguage
		}
		return "jpn"
	case "ja", "jpn":
		return "jpn"
	case "en", "eng":
		return "eng"
	default:
		return hint
	}
}
