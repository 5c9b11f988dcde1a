// Package specificity computes W3C selector specificity on a best-effort
// textual basis and provides the ordering and threshold utilities built on it.
package specificity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Specificity is the (inline, id, class, element) tuple. Class aggregates
// classes, attribute selectors and pseudo-classes, Element aggregates type
// selectors and pseudo-elements.
type Specificity struct {
	Inline  int `json:"inline" yaml:"inline"`
	ID      int `json:"id" yaml:"id"`
	Class   int `json:"class" yaml:"class"`
	Element int `json:"element" yaml:"element"`
}

// DefaultThreshold is suitable for BEM-style low specificity stylesheets.
var DefaultThreshold = Specificity{Inline: 0, ID: 1, Class: 3, Element: 3}

// Inline is the specificity of an inline style declaration.
var Inline = Specificity{Inline: 1}

// ErrInvalidThreshold is returned by Parse for anything other than four
// comma separated non-negative integers.
var ErrInvalidThreshold = errors.New("invalid specificity, use '0,1,3,3' format")

// Tuple returns components in comparison order.
func (s Specificity) Tuple() [4]int {
	return [4]int{s.Inline, s.ID, s.Class, s.Element}
}

// IsZero reports whether all components are zero.
func (s Specificity) IsZero() bool {
	return s == Specificity{}
}

// String returns canonical "i,id,class,element" form.
func (s Specificity) String() string {
	return Format(s)
}

// Compare orders a and b lexicographically: inline first, then id, class and
// element. It returns -1, 0 or +1.
func Compare(a, b Specificity) int {
	at, bt := a.Tuple(), b.Tuple()
	for i := range at {
		switch {
		case at[i] < bt[i]:
			return -1
		case at[i] > bt[i]:
			return 1
		}
	}
	return 0
}

// Exceeds reports whether spec is strictly greater than threshold.
func Exceeds(spec, threshold Specificity) bool {
	return Compare(spec, threshold) > 0
}

// Format returns comma joined components without spaces.
func Format(s Specificity) string {
	var sb strings.Builder
	sb.Grow(8)
	for i, v := range s.Tuple() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Parse reads specificity written as four comma separated non-negative
// integers, for example "0,1,3,3". Whitespace around values is ignored.
func Parse(s string) (Specificity, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Specificity{}, fmt.Errorf("%w: expected 4 values, got %d in %q", ErrInvalidThreshold, len(parts), s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Specificity{}, fmt.Errorf("%w: %q: %w", ErrInvalidThreshold, p, err)
		}
		if v < 0 {
			return Specificity{}, fmt.Errorf("%w: negative value %d", ErrInvalidThreshold, v)
		}
		vals[i] = v
	}
	return Specificity{Inline: vals[0], ID: vals[1], Class: vals[2], Element: vals[3]}, nil
}
