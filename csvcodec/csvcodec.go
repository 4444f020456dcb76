// Package csvcodec implements the comma-only CSV grammar the published
// feeds use. It is deliberately more tolerant than encoding/csv: an
// unterminated quote consumes to end of input instead of failing, carriage
// returns are dropped outside quotes, a trailing row without a final
// newline is still emitted, and blank rows are filtered out.
package csvcodec

import "strings"

// Parse splits text into rows of fields. Rows that are empty or consist
// only of empty fields are dropped.
func Parse(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					cur.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				cur.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, cur.String())
			cur.Reset()
		case '\n':
			row = append(row, cur.String())
			rows = append(rows, row)
			row = nil
			cur.Reset()
		case '\r':
			// dropped
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 || len(row) > 0 {
		row = append(row, cur.String())
		rows = append(rows, row)
	}

	out := rows[:0]
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		keep := false
		for _, f := range r {
			if f != "" {
				keep = true
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// Escape wraps v in quotes, doubling internal quotes, iff it contains a
// comma, a quote or a newline. Otherwise v is returned unchanged.
func Escape(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
