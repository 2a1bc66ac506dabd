package models

import (
	"fmt"
	"strings"
)

// ExportFormat is the output format of a report
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatWord  ExportFormat = "word"
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
)

// FormatInfo describes how a format is presented and delivered
type FormatInfo struct {
	Format      ExportFormat `json:"format"`
	Extension   string       `json:"extension"`
	ContentType string       `json:"contentType"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

// ExportFormats lists every supported format in display order.
var ExportFormats = []FormatInfo{
	{
		Format:      FormatPDF,
		Extension:   ".pdf",
		ContentType: "application/pdf",
		Label:       "PDF",
		Description: "Yazdırmaya hazır PDF raporu",
	},
	{
		Format:      FormatWord,
		Extension:   ".docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Label:       "Word",
		Description: "Düzenlenebilir Word belgesi",
	},
	{
		Format:      FormatExcel,
		Extension:   ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Label:       "Excel",
		Description: "Hesap tablosu olarak Excel dosyası",
	},
	{
		Format:      FormatCSV,
		Extension:   ".csv",
		ContentType: "text/csv; charset=utf-8",
		Label:       "CSV",
		Description: "Virgülle ayrılmış ham veri",
	},
}

// Info returns the presentation data of the format.
func (f ExportFormat) Info() (FormatInfo, bool) {
	for _, info := range ExportFormats {
		if info.Format == f {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// Valid reports whether f is one of the supported formats.
func (f ExportFormat) Valid() bool {
	_, ok := f.Info()
	return ok
}

// ParseExportFormat converts a format tag into an ExportFormat
func ParseExportFormat(tag string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(tag)))
	if !format.Valid() {
		return "", &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported export format %q", tag),
		}
	}
	return format, nil
}
