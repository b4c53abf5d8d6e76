package rules

// maskCode blanks comments and the contents of string literals with spaces.
// Byte offsets are unchanged, so columns can be computed against the raw
// lines. Only template literals continue across lines.
func maskCode(lines []string) []string {
	out := make([]string, len(lines))
	inBlock := false
	var quote byte
	for i, ln := range lines {
		b := []byte(ln)
		for j := 0; j < len(b); j++ {
			c := b[j]
			switch {
			case inBlock:
				if c == '*' && j+1 < len(b) && b[j+1] == '/' {
					b[j], b[j+1] = ' ', ' '
					j++
					inBlock = false
					continue
				}
				b[j] = ' '
			case quote != 0:
				if c == '\\' && j+1 < len(b) {
					b[j], b[j+1] = ' ', ' '
					j++
					continue
				}
				if c == quote {
					quote = 0
					continue
				}
				b[j] = ' '
			case c == '/' && j+1 < len(b) && b[j+1] == '/':
				for k := j; k < len(b); k++ {
					b[k] = ' '
				}
				j = len(b)
			case c == '/' && j+1 < len(b) && b[j+1] == '*':
				b[j], b[j+1] = ' ', ' '
				j++
				inBlock = true
			case c == '"' || c == '\'' || c == '`':
				quote = c
			}
		}
		if quote == '"' || quote == '\'' {
			quote = 0
		}
		out[i] = string(b)
	}
	return out
}
