package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// utf8BOM lets spreadsheet programs detect the encoding of Turkish labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func renderCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	records := [][]string{
		{"Şirket", "Kod", "Yıl", "Kalem", "Değer"},
	}
	year := strconv.Itoa(doc.Data.Year)
	for _, rows := range [][]Row{doc.BalanceSheetRows(), doc.RatioRows()} {
		for _, row := range rows {
			records = append(records, []string{csvText(doc.CompanyName), csvText(doc.CompanyCode), year, csvText(row.Label), row.Value})
		}
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvText quotes text a spreadsheet would otherwise read as a formula.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
