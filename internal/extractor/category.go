package extractor

import (
	"mime"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Category is the closed set of document kinds the extractor dispatches on.
type Category string

const (
	CategoryWord         Category = "docx"
	CategoryLegacyWord   Category = "doc"
	CategoryPDF          Category = "pdf"
	CategoryText         Category = "txt"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryImage        Category = "image"
	CategoryUnsupported  Category = "unsupported"
)

// Categories lists every category, in dispatch-table order.
var Categories = []Category{
	CategoryWord,
	CategoryLegacyWord,
	CategoryPDF,
	CategoryText,
	CategorySpreadsheet,
	CategoryPresentation,
	CategoryImage,
	CategoryUnsupported,
}

// UnsupportedText is returned as successful text for formats with no extraction routine.
const UnsupportedText = "(このファイル形式は現在サポートされていません)"

var mimeCategories = map[string]Category{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   CategoryWord,
	"application/msword":                                                        CategoryLegacyWord,
	"application/pdf":                                                           CategoryPDF,
	"text/plain":                                                                CategoryText,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         CategorySpreadsheet,
	"application/vnd.ms-excel":                                                  CategorySpreadsheet,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": CategoryPresentation,
	"application/vnd.ms-powerpoint":                                             CategoryPresentation,
	"image/png":                                                                 CategoryImage,
	"image/jpeg":                                                                CategoryImage,
	"image/jpg":                                                                 CategoryImage,
	"image/gif":                                                                 CategoryImage,
}

var extCategories = map[string]Category{
	"docx": CategoryWord,
	"doc":  CategoryLegacyWord,
	"pdf":  CategoryPDF,
	"txt":  CategoryText,
	"xls":  CategorySpreadsheet,
	"xlsx": CategorySpreadsheet,
	"ppt":  CategoryPresentation,
	"pptx": CategoryPresentation,
	"png":  CategoryImage,
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"gif":  CategoryImage,
}

// Classify maps a file to its category. The declared type (MIME or extension)
// wins; generic MIME types such as application/octet-stream fall back to the
// file name's extension.
func Classify(file domain.UploadedFile) Category {
	declared := strings.TrimSpace(file.DeclaredType)

	if strings.Contains(declared, "/") {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err != nil {
			mediaType = strings.ToLower(declared)
		}
		if c, ok := mimeCategories[mediaType]; ok {
			return c
		}
	} else if declared != "" {
		if c, ok := extCategories[domain.NormalizeExt(declared)]; ok {
			return c
		}
	}

	if c, ok := extCategories[file.Ext()]; ok {
		return c
	}
	return CategoryUnsupported
}
