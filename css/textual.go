package css

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"cssspec/specificity"
)

var commentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)

// TextualExtractor finds rule preludes by scanning for braces. Preludes of
// at-rules are dropped together with their whole block, so rules nested in
// @media and similar are not reported.
type TextualExtractor struct {
	split specificity.SplitMode
	log   *zap.Logger
}

// NewTextualExtractor creates extractor splitting selector lists with split.
func NewTextualExtractor(split specificity.SplitMode, log *zap.Logger) *TextualExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextualExtractor{split: split, log: log.Named("css-textual")}
}

// Extract never fails, text which does not look like a stylesheet yields
// nothing.
func (e *TextualExtractor) Extract(text string) []string {
	text = commentRE.ReplaceAllLiteralString(text, "")

	var (
		selectors []string
		depth     int
		start     int
	)
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'':
			i = skipString(text, i)
		case '{':
			if depth == 0 {
				selectors = append(selectors, e.prelude(text[start:i])...)
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				start = i + 1
			}
		case ';':
			// statement at-rules such as @import end here
			if depth == 0 {
				start = i + 1
			}
		}
	}
	return selectors
}

func (e *TextualExtractor) prelude(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "@") {
		e.log.Debug("Skipping @-rule", zap.String("rule", s))
		return nil
	}
	return normalizeAll(specificity.SplitList(s, e.split))
}

// skipString returns index of the quote closing string opened at i, or the
// last index of s for unterminated strings.
func skipString(s string, i int) int {
	quote := s[i]
	for i++; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		case '\n':
			// unterminated strings end at the line break
			return i
		}
	}
	return len(s) - 1
}
