package reports

import "strings"

// utf8BOM is prepended so spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

// EscapeCell quotes a CSV cell when it contains a comma, double quote, or
// line break, doubling any embedded quotes. Plain values pass through
// untouched.
func EscapeCell(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Marshal renders rows as a CSV document with a UTF-8 BOM and CRLF line
// endings.
func Marshal(header []string, rows [][]string) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)
	writeRow(&b, header)
	for _, row := range rows {
		writeRow(&b, row)
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, row []string) {
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCell(cell))
	}
	b.WriteString("\r\n")
}
