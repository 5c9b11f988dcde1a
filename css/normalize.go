package css

import (
	"strings"
)

// NormalizeSelector rewrites whitespace of a single selector into canonical
// form, so selectors read from the same text are reported identically by
// both extractors. Whitespace runs become one space and attribute brackets
// lose inner spaces. Combinators get one space on each side at the top level
// and none inside functional arguments. String contents and escapes are kept
// as written.
func NormalizeSelector(sel string) string {
	var (
		sb       strings.Builder
		parens   int
		brackets int
		pending  bool // whitespace seen since last written byte
		glued    bool // last written byte swallows following whitespace
	)
	sb.Grow(len(sel))

	flush := func() {
		if pending && !glued && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pending, glued = false, false
	}

	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case c == '\\':
			flush()
			sb.WriteByte(c)
			if i+1 < len(sel) {
				i++
				sb.WriteByte(sel[i])
			}

		case c == '"' || c == '\'':
			flush()
			end := skipString(sel, i)
			sb.WriteString(sel[i : end+1])
			i = end

		case isSpace(c):
			if brackets == 0 {
				pending = true
			}

		case brackets > 0:
			if c == ']' {
				brackets--
			}
			sb.WriteByte(c)

		case c == '[':
			flush()
			brackets++
			sb.WriteByte(c)

		case c == '>' || c == '+' || c == '~':
			pending = false
			if parens == 0 {
				if sb.Len() > 0 && !glued {
					sb.WriteByte(' ')
				}
				sb.WriteByte(c)
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(c)
			}
			glued = true

		case c == ',':
			pending = false
			sb.WriteString(", ")
			glued = true

		case c == '(':
			flush()
			parens++
			sb.WriteByte(c)
			glued = true

		case c == ')':
			pending, glued = false, false
			if parens > 0 {
				parens--
			}
			sb.WriteByte(c)

		default:
			flush()
			sb.WriteByte(c)
		}
	}
	return strings.TrimSpace(sb.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// normalizeAll normalizes selectors in place dropping those left empty.
func normalizeAll(sels []string) []string {
	out := sels[:0]
	for _, s := range sels {
		if s = NormalizeSelector(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
