package css

import (
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"cssspec/specificity"
)

// GrammarExtractor walks stylesheet with tokenizing CSS parser. Unlike
// TextualExtractor it descends into conditional group rules (@media,
// @supports, @layer and similar) and reports selectors nested there.
type GrammarExtractor struct {
	split specificity.SplitMode
	log   *zap.Logger
}

// NewGrammarExtractor creates extractor splitting selector lists with split.
func NewGrammarExtractor(split specificity.SplitMode, log *zap.Logger) *GrammarExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &GrammarExtractor{split: split, log: log.Named("css-parser")}
}

// Extract returns selectors in source order. Parse errors stop the walk and
// whatever was collected so far is returned.
func (e *GrammarExtractor) Extract(text string) []string {
	parser := css.NewParser(parse.NewInput(strings.NewReader(text)), false)

	var (
		selectors []string
		pending   []string
	)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				e.log.Debug("CSS parse error", zap.Error(err))
			}
			return selectors

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			if groupRules[atRule] {
				e.log.Debug("Entering @-rule", zap.String("rule", atRule))
				continue
			}
			e.skipAtRuleBlock(parser)
			e.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.QualifiedRuleGrammar:
			// selector followed by comma, the list continues
			pending = append(pending, tokensText(data, parser.Values()))

		case css.BeginRulesetGrammar:
			pending = append(pending, tokensText(data, parser.Values()))
			for _, sel := range pending {
				selectors = append(selectors, normalizeAll(specificity.SplitList(sel, e.split))...)
			}
			pending = pending[:0]
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (e *GrammarExtractor) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func tokensText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}
