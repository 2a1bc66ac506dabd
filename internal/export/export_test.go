package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	return Document{
		CompanyName: "Garanti Bankası & Ortakları",
		CompanyCode: "GARAN",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Data: models.FinancialData{
			Year: 2023,
			BalanceSheet: models.BalanceSheet{
				TotalCurrentAssets:      200,
				TotalCurrentLiabilities: 100,
				CashAndEquivalents:      50,
				AccountsReceivable:      30,
				Inventory:               40,
			},
			CurrentRatio:   2,
			LiquidityRatio: 1.6,
			AcidTestRatio:  0.8,
		},
	}
}

func TestRenderEveryFormat(t *testing.T) {
	for _, info := range models.ExportFormats {
		out, err := Render(info.Format, sampleDocument())
		require.NoError(t, err, info.Format)
		assert.NotEmpty(t, out, info.Format)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(models.ExportFormat("odt"), sampleDocument())
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(models.FormatPDF, sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(models.FormatCSV, sampleDocument())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 12)
	assert.Equal(t, []string{"Şirket", "Kod", "Yıl", "Kalem", "Değer"}, records[0])
	assert.Equal(t, []string{"Garanti Bankası & Ortakları", "GARAN", "2023", "Cari Oran", "2.00"}, records[9])
	assert.Equal(t, "1.60", records[10][4])
	assert.Equal(t, "0.80", records[11][4])
}

func TestRenderCSVQuotesFormulaLikeText(t *testing.T) {
	doc := sampleDocument()
	doc.CompanyName = `=HYPERLINK("http://evil.example","x")`
	doc.CompanyCode = "@SUM"

	out, err := Render(models.FormatCSV, doc)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `'=HYPERLINK("http://evil.example","x")`, records[1][0])
	assert.Equal(t, "'@SUM", records[1][1])

	for name, want := range map[string]string{
		"+90":         "'+90",
		"-1":          "'-1",
		"\tx":        "'\tx",
		"Aselsan":     "Aselsan",
		"":            "",
		"Koç Holding": "Koç Holding",
	} {
		assert.Equal(t, want, csvText(name), name)
	}
}

func TestRenderExcel(t *testing.T) {
	out, err := Render(models.FormatExcel, sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue(excelSheet, "A16")
	require.NoError(t, err)
	assert.Equal(t, "Cari Oran", label)

	value, err := f.GetCellValue(excelSheet, "B16")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestRenderWord(t *testing.T) {
	out, err := Render(models.FormatWord, sampleDocument())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var document string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		document = string(content)
	}

	assert.Contains(t, document, "Garanti Bankası &amp; Ortakları (GARAN)")
	assert.Contains(t, document, "Asit-Test Oranı")
	assert.Contains(t, document, "0.80")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "garanti-bankasi-2023.xlsx", FileName("Garanti Bankası", 2023, models.FormatExcel))
	assert.Equal(t, "turk-hava-yollari-a-o-2022.docx", FileName("Türk Hava Yolları A.O.", 2022, models.FormatWord))
	assert.Equal(t, "rapor-2021.csv", FileName("***", 2021, models.FormatCSV))
}

func TestTitleDefaults(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, "Garanti Bankası & Ortakları Likidite Analizi 2023", doc.Title())

	doc.ReportName = "Yıllık Rapor"
	assert.Equal(t, "Yıllık Rapor", doc.Title())
}
