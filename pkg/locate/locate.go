// Package locate finds page elements by trying ordered lists of alternative selectors.
//
// The application under test has no stable test ids, so every logical target
// (a create button, a title field, a memory card) is described by several candidate
// selectors. Candidates are tried in order and the first element that satisfies
// the predicate wins. Failures of individual candidates are never fatal: a bad
// selector, a stale element or a driver error only moves the search on.
package locate

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate moq -out mocks/element.go -pkg mocks -skip-ensure -fmt goimports . Element
//go:generate moq -out mocks/querier.go -pkg mocks -skip-ensure -fmt goimports . Querier

// ErrNotFound is returned when no candidate yields an accepted element.
var ErrNotFound = errors.New("element not found")

// Strategy selects how a candidate locator is interpreted.
type Strategy string

// supported strategies.
const (
	CSS   Strategy = "css"   // css selector
	XPath Strategy = "xpath" // xpath expression
	Tag   Strategy = "tag"   // bare tag name
	Text  Strategy = "text"  // visible text match
)

// Candidate is one way of locating a target.
type Candidate struct {
	Strategy Strategy
	Locator  string
}

// String renders the candidate as "strategy=locator", the same form ParseCandidate accepts.
func (c Candidate) String() string {
	return string(c.Strategy) + "=" + c.Locator
}

// Candidates is an ordered list of alternatives, most specific first.
type Candidates []Candidate

// ParseCandidate parses "css=...", "xpath=...", "tag=..." or "text=...".
// without a known prefix a locator starting with "/" or "(" is taken as xpath, anything else as css.
func ParseCandidate(s string) (Candidate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Candidate{}, errors.New("empty locator")
	}
	if prefix, rest, ok := strings.Cut(s, "="); ok {
		switch st := Strategy(strings.ToLower(strings.TrimSpace(prefix))); st {
		case CSS, XPath, Tag, Text:
			rest = strings.TrimSpace(rest)
			if rest == "" {
				return Candidate{}, fmt.Errorf("empty locator for %s", st)
			}
			return Candidate{Strategy: st, Locator: rest}, nil
		}
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") {
		return Candidate{Strategy: XPath, Locator: s}, nil
	}
	return Candidate{Strategy: CSS, Locator: s}, nil
}

// MustParse builds Candidates from strings and panics on a malformed entry. for literals only.
func MustParse(items ...string) Candidates {
	res := make(Candidates, 0, len(items))
	for _, it := range items {
		c, err := ParseCandidate(it)
		if err != nil {
			panic(fmt.Sprintf("locate: %q: %v", it, err))
		}
		res = append(res, c)
	}
	return res
}

// Element is a located page element.
type Element interface {
	IsVisible() (bool, error)
	IsEnabled() (bool, error)
	Text() (string, error)
	TagName() (string, error)
	Width() (float64, error)
	Click() error
	Fill(value string) error
	Press(key string) error
	Query(c Candidate) ([]Element, error)
	Options() (labels []string, selected string, err error)
	SelectOption(label string) error
}

// Querier returns all elements matching a candidate, in document order.
type Querier interface {
	Query(c Candidate) ([]Element, error)
}
