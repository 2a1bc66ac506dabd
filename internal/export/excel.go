package export

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Sheet1"

func renderExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	set := func(label string, value interface{}, style int) error {
		labelCell := "A" + strconv.Itoa(row)
		if err := f.SetCellValue(excelSheet, labelCell, label); err != nil {
			return err
		}
		if value != nil {
			if err := f.SetCellValue(excelSheet, "B"+strconv.Itoa(row), value); err != nil {
				return err
			}
		}
		if style != 0 {
			if err := f.SetCellStyle(excelSheet, labelCell, labelCell, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	bs := doc.Data.BalanceSheet
	lines := []struct {
		label string
		value interface{}
		style int
	}{
		{doc.Title(), nil, bold},
		{doc.Subtitle(), nil, 0},
		{"Yıl", doc.Data.Year, 0},
		{"", nil, 0},
		{"Bilanço Kalemleri", nil, bold},
		{"Nakit ve Nakit Benzerleri", bs.CashAndEquivalents, 0},
		{"Ticari Alacaklar", bs.AccountsReceivable, 0},
		{"Stoklar", bs.Inventory, 0},
		{"Diğer Dönen Varlıklar", bs.OtherCurrentAssets, 0},
		{"Toplam Dönen Varlıklar", bs.TotalCurrentAssets, 0},
		{"Kısa Vadeli Borçlanmalar", bs.ShortTermDebt, 0},
		{"Ticari Borçlar", bs.AccountsPayable, 0},
		{"Toplam Kısa Vadeli Yükümlülükler", bs.TotalCurrentLiabilities, 0},
		{"", nil, 0},
		{"Oranlar", nil, bold},
		{"Cari Oran", doc.Data.CurrentRatio, 0},
		{"Likidite Oranı", doc.Data.LiquidityRatio, 0},
		{"Asit-Test Oranı", doc.Data.AcidTestRatio, 0},
	}
	for _, line := range lines {
		if err := set(line.label, line.value, line.style); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(excelSheet, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(excelSheet, "B", "B", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
