package specificity

import (
	"regexp"
	"strings"
)

var (
	doubleQuotedRE = regexp.MustCompile(`"[^"]*"`)
	singleQuotedRE = regexp.MustCompile(`'[^']*'`)

	idRE        = regexp.MustCompile(`#[\w-]+`)
	classRE     = regexp.MustCompile(`\.[\w-]+`)
	attributeRE = regexp.MustCompile(`\[[^\[\]]*\]`)
	pseudoRE    = regexp.MustCompile(`:([\w-]+)`)
	functionRE  = regexp.MustCompile(`(?i):(not|is|where|has)\(`)
	argumentRE  = regexp.MustCompile(`\([^()]*\)`)

	combinatorRE   = regexp.MustCompile(`[\s>+~]+`)
	pseudoStripRE  = regexp.MustCompile(`::?[\w-]+(?:\([^)]*\))?`)
	elementStartRE = regexp.MustCompile(`^[a-zA-Z]`)
)

const inlineStyleToken = "style="

// pseudoElements are recognized with one or two leading colons.
var pseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
	"backdrop":     true,
	"placeholder":  true,
	"marker":       true,
	"selection":    true,
}

// functional pseudo-classes never count themselves, only their arguments do.
var functional = map[string]bool{
	"not":   true,
	"is":    true,
	"where": true,
	"has":   true,
}

// stripStrings empties quoted string bodies so that CSS-like text inside
// attribute values is not counted.
func stripStrings(s string) string {
	s = doubleQuotedRE.ReplaceAllLiteralString(s, `""`)
	s = singleQuotedRE.ReplaceAllLiteralString(s, `''`)
	return strings.TrimSpace(s)
}

// span locates a functional pseudo-class occurrence: s[start:end] is the
// whole ":name(args)" text and s[argStart:argEnd] the argument list.
type span struct {
	name             string
	start, end       int
	argStart, argEnd int
}

func (sp span) arg(s string) string {
	return s[sp.argStart:sp.argEnd]
}

// functionalSpans returns non-overlapping functional pseudo-classes in s in
// source order. Occurrences without a closing parenthesis are not spans, the
// text is left for the regular scans.
func functionalSpans(s string, mode SplitMode) []span {
	var (
		spans []span
		last  int
	)
	for _, m := range functionRE.FindAllStringSubmatchIndex(s, -1) {
		if m[0] < last {
			continue
		}
		argStart := m[1]
		argEnd := closingParen(s, argStart, mode)
		if argEnd < 0 {
			continue
		}
		spans = append(spans, span{
			name:     strings.ToLower(s[m[2]:m[3]]),
			start:    m[0],
			end:      argEnd + 1,
			argStart: argStart,
			argEnd:   argEnd,
		})
		last = argEnd + 1
	}
	return spans
}

// closingParen returns index of the parenthesis closing the argument list
// starting at from, or -1.
func closingParen(s string, from int, mode SplitMode) int {
	if mode != SplitModeNested {
		if i := strings.IndexByte(s[from:], ')'); i >= 0 {
			return from + i
		}
		return -1
	}
	depth := 0
	var quote byte
	for i := from; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' && depth == 0:
			return i
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		}
	}
	return -1
}

// maskFunctional removes argument bodies of all top level functional
// pseudo-classes, leaving "name()" behind.
func maskFunctional(s string, spans []span) string {
	if len(spans) == 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	prev := 0
	for _, sp := range spans {
		sb.WriteString(s[prev:sp.argStart])
		prev = sp.argEnd
	}
	sb.WriteString(s[prev:])
	return sb.String()
}

// stripWhere removes arguments of every :where() at any nesting level.
func stripWhere(s string, mode SplitMode) string {
	for from := 0; from < len(s); {
		loc := functionRE.FindStringSubmatchIndex(s[from:])
		if loc == nil {
			break
		}
		name := strings.ToLower(s[from+loc[2] : from+loc[3]])
		argStart := from + loc[1]
		if name != "where" {
			from = argStart
			continue
		}
		argEnd := closingParen(s, argStart, mode)
		if argEnd < 0 {
			break
		}
		s = s[:argStart] + s[argEnd:]
		from = argStart
	}
	return s
}

// SplitList splits a selector list on commas according to mode, trims every
// item and drops empty ones.
func SplitList(s string, mode SplitMode) []string {
	var parts []string
	if mode != SplitModeNested {
		parts = strings.Split(s, ",")
	} else {
		parts = splitNested(s)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitNested(s string) []string {
	var (
		parts []string
		quote byte
		depth int
		prev  int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, s[prev:i])
			prev = i + 1
		}
	}
	return append(parts, s[prev:])
}
