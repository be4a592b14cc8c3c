package constants

import (
	"path/filepath"
	"strings"
)

type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindPDF   FileKind = "pdf"
	FileKindExcel FileKind = "excel"
	FileKindOther FileKind = "other"
)

func DetectFileKind(filename string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	case ".xls", ".xlsx", ".csv":
		return FileKindExcel
	default:
		return FileKindOther
	}
}
