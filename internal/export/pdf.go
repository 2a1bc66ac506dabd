package export

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
)

// The core fonts are cp1252; the Turkish letters missing from it are written
// without diacritics.
var pdfTurkish = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
)

func renderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	tr := func(s string) string { return cp1252(pdfTurkish.Replace(s)) }

	pdf.SetTitle(doc.Title(), true)
	pdf.SetCreator("FinRasyo", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(doc.Subtitle()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Oluşturulma: "+doc.generatedAt().Format("02.01.2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	table := func(heading string, rows []Row) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(heading), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, row := range rows {
			pdf.CellFormat(120, 7, tr(row.Label), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, row.Value, "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}
	table("Bilanço Kalemleri", doc.BalanceSheetRows())
	table("Oranlar", doc.RatioRows())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
