// Package css locates selectors in stylesheet text and decodes stylesheet
// bytes. It does not build a style model: callers only need ordered selector
// lists.
package css

import (
	"strings"

	"go.uber.org/zap"

	"cssspec/common"
	"cssspec/specificity"
)

// Extractor returns selectors of every rule in stylesheet text in source
// order. Selector whitespace is normalized with NormalizeSelector.
type Extractor interface {
	Extract(text string) []string
}

// NewExtractor returns extractor for mode. Selector lists are split on commas
// according to split.
func NewExtractor(mode common.ExtractionMode, split specificity.SplitMode, log *zap.Logger) Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	switch mode {
	case common.ExtractionModeGrammar:
		return NewGrammarExtractor(split, log)
	default:
		return NewTextualExtractor(split, log)
	}
}

// groupRules hold nested rule lists the grammar extractor descends into.
var groupRules = map[string]bool{
	"@media":          true,
	"@supports":       true,
	"@layer":          true,
	"@container":      true,
	"@document":       true,
	"@-moz-document":  true,
	"@scope":          true,
	"@starting-style": true,
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
