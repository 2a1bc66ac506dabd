package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

const wordContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const wordRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// renderWord writes a minimal WordprocessingML package: headings, paragraphs
// and one bordered table per section.
func renderWord(doc Document) ([]byte, error) {
	var body strings.Builder
	paragraph(&body, doc.Title(), true, 32)
	paragraph(&body, doc.Subtitle(), false, 0)
	paragraph(&body, "Oluşturulma: "+doc.generatedAt().Format("02.01.2006 15:04"), false, 0)

	section := func(heading string, rows []Row) {
		paragraph(&body, heading, true, 26)
		body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			body.WriteString(`<w:` + side + ` w:val="single" w:sz="4" w:space="0" w:color="auto"/>`)
		}
		body.WriteString(`</w:tblBorders></w:tblPr>`)
		for _, row := range rows {
			body.WriteString(`<w:tr>`)
			cell(&body, row.Label)
			cell(&body, row.Value)
			body.WriteString(`</w:tr>`)
		}
		body.WriteString(`</w:tbl>`)
	}
	section("Bilanço Kalemleri", doc.BalanceSheetRows())
	section("Oranlar", doc.RatioRows())

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`<w:sectPr/></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", wordContentTypes},
		{"_rels/.rels", wordRels},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paragraph(b *strings.Builder, text string, bold bool, size int) {
	b.WriteString(`<w:p><w:r>`)
	if bold || size > 0 {
		b.WriteString(`<w:rPr>`)
		if bold {
			b.WriteString(`<w:b/>`)
		}
		if size > 0 {
			b.WriteString(`<w:sz w:val="` + strconv.Itoa(size) + `"/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	escape(b, text)
	b.WriteString(`</w:t></w:r></w:p>`)
}

func cell(b *strings.Builder, text string) {
	b.WriteString(`<w:tc><w:p><w:r><w:t xml:space="preserve">`)
	escape(b, text)
	b.WriteString(`</w:t></w:r></w:p></w:tc>`)
}

func escape(b *strings.Builder, text string) {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(text))
	b.Write(buf.Bytes())
}
