package storage

import "strings"

// The artifacts are comma-delimited with double-quote quoting. The codec is
// deliberately hand-rolled: the format tolerates unterminated quotes and
// bare quote characters mid-field, which encoding/csv rejects, and existing
// data files depend on that tolerance.

// ParseLine splits one line into its fields. It never fails: malformed
// quoting is parsed best-effort, with an unterminated quote running to the
// end of the line. Two consecutive quote characters inside a quoted span
// decode to one literal quote.
func ParseLine(line string) []string {
	out := []string{}
	var sb strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				sb.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			out = append(out, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}

	out = append(out, sb.String())
	return out
}

// Escape encodes one field value for a delimited line. Values free of the
// delimiter, quote character and line breaks pass through unchanged;
// anything else has its quotes doubled and is wrapped in quotes. Escape is
// the exact inverse of ParseLine for any value it produces.
func Escape(value string) string {
	needsQuotes := strings.ContainsAny(value, ",\"\n\r")
	v := strings.ReplaceAll(value, `"`, `""`)
	if needsQuotes {
		return `"` + v + `"`
	}
	return v
}
