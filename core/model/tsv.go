package model

import (
	"strconv"
	"strings"
)

// EncodeTSV renders rows as tab-separated text with a header line and "\n"
// line terminators. No quoting or escaping is performed: surfaces are
// emitted verbatim per the output-interface contract.
func EncodeTSV(rows []Row) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, "\t"))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r.Fields(), "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeTSV parses a header-plus-rows TSV produced by EncodeTSV or by a
// companion service, tolerating the companion-service column set
// (Reference..TWLink, optionally GLQuote/GLOccurrence, optionally
// Variant of/Disambiguation).
func DecodeTSV(text string) ([]Row, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 {
		return nil, nil
	}
	header := strings.Split(lines[0], "\t")
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	col := func(fields []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		rows = append(rows, Row{
			Reference:      col(fields, "Reference"),
			ID:             col(fields, "ID"),
			Tags:           col(fields, "Tags"),
			OrigWords:      col(fields, "OrigWords"),
			Occurrence:     atoi(col(fields, "Occurrence")),
			TWLink:         col(fields, "TWLink"),
			GLQuote:        col(fields, "GLQuote"),
			GLOccurrence:   atoi(col(fields, "GLOccurrence")),
			VariantOf:      col(fields, "Variant of"),
			Disambiguation: col(fields, "Disambiguation"),
		})
	}
	return rows, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
