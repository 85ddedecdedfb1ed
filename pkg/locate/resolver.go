package locate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Predicate decides whether a matched element is acceptable.
type Predicate func(Element) (bool, error)

// Action is performed on the accepted element.
type Action func(Element) error

// Match is an accepted element and the candidate that produced it.
type Match struct {
	Element   Element
	Candidate Candidate
}

// Resolver walks candidate lists. The zero value is ready to use.
type Resolver struct {
	// OnMiss, if set, is called for every candidate that failed with an error.
	OnMiss func(c Candidate, err error)
	// PollInterval is the delay between attempts in Wait, 250ms when zero.
	PollInterval time.Duration
}

// First tries candidates in order, runs action on the first element accepted by accept
// and stops. a nil accept means Interactive, a nil action just selects.
// query, predicate and action errors (and panics) skip to the next candidate.
func (r *Resolver) First(q Querier, cands Candidates, accept Predicate, action Action) (Match, error) {
	if accept == nil {
		accept = Interactive
	}
	for _, c := range cands {
		els, err := safeQuery(q, c)
		if err != nil {
			r.miss(c, err)
			continue
		}
		el, ok := r.firstAccepted(c, els, accept)
		if !ok {
			continue
		}
		if action != nil {
			if err := safeAction(action, el); err != nil {
				r.miss(c, fmt.Errorf("action: %w", err))
				continue
			}
		}
		return Match{Element: el, Candidate: c}, nil
	}
	return Match{}, ErrNotFound
}

// Find is First without an action.
func (r *Resolver) Find(q Querier, cands Candidates, accept Predicate) (Match, error) {
	return r.First(q, cands, accept, nil)
}

// Collect returns every accepted element of every candidate, in candidate order.
// an element matched by several candidates is returned once per candidate.
func (r *Resolver) Collect(q Querier, cands Candidates, accept Predicate) []Match {
	if accept == nil {
		accept = Visible
	}
	var res []Match
	for _, c := range cands {
		els, err := safeQuery(q, c)
		if err != nil {
			r.miss(c, err)
			continue
		}
		for _, el := range els {
			ok, err := safeAccept(accept, el)
			if err != nil {
				r.miss(c, err)
				continue
			}
			if ok {
				res = append(res, Match{Element: el, Candidate: c})
			}
		}
	}
	return res
}

// CountFirst counts accepted elements of the first candidate that has any.
// returns 0 when no candidate matches.
func (r *Resolver) CountFirst(q Querier, cands Candidates, accept Predicate) int {
	if accept == nil {
		accept = Visible
	}
	for _, c := range cands {
		n := len(r.Collect(q, Candidates{c}, accept))
		if n > 0 {
			return n
		}
	}
	return 0
}

// Wait repeats Find until it succeeds, timeout elapses or ctx is done.
// returns ErrNotFound on timeout and the context error on cancellation.
func (r *Resolver) Wait(ctx context.Context, q Querier, cands Candidates, accept Predicate, timeout time.Duration) (Match, error) {
	interval := r.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m, err := r.Find(q, cands, accept)
		if err == nil {
			return m, nil
		}
		select {
		case <-ctx.Done():
			return Match{}, ctx.Err()
		case <-deadline.C:
			return Match{}, ErrNotFound
		case <-ticker.C:
		}
	}
}

func (r *Resolver) firstAccepted(c Candidate, els []Element, accept Predicate) (Element, bool) {
	for _, el := range els {
		ok, err := safeAccept(accept, el)
		if err != nil {
			r.miss(c, err)
			continue
		}
		if ok {
			return el, true
		}
	}
	return nil, false
}

func (r *Resolver) miss(c Candidate, err error) {
	if r.OnMiss != nil {
		r.OnMiss(c, err)
	}
}

func safeQuery(q Querier, c Candidate) (els []Element, err error) {
	defer recoverTo(&err)
	return q.Query(c)
}

func safeAccept(p Predicate, el Element) (ok bool, err error) {
	defer recoverTo(&err)
	return p(el)
}

func safeAction(a Action, el Element) (err error) {
	defer recoverTo(&err)
	return a(el)
}

func recoverTo(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("panic: %v", rec)
	}
}

// Visible accepts displayed elements.
func Visible(el Element) (bool, error) { return el.IsVisible() }

// Interactive accepts displayed and enabled elements.
func Interactive(el Element) (bool, error) {
	vis, err := el.IsVisible()
	if err != nil || !vis {
		return false, err
	}
	return el.IsEnabled()
}

// VisibleWithText accepts displayed elements with non-blank text.
func VisibleWithText(el Element) (bool, error) {
	return All(Visible, TextLongerThan(0))(el)
}

// TextLongerThan accepts elements whose trimmed text is longer than n characters.
func TextLongerThan(n int) Predicate {
	return func(el Element) (bool, error) {
		txt, err := el.Text()
		if err != nil {
			return false, err
		}
		return len([]rune(strings.TrimSpace(txt))) > n, nil
	}
}

// HasWidth accepts elements with a rendered width above zero.
func HasWidth(el Element) (bool, error) {
	w, err := el.Width()
	if err != nil {
		return false, err
	}
	return w > 0, nil
}

// All combines predicates, evaluated in order and short-circuited on the first rejection.
func All(preds ...Predicate) Predicate {
	return func(el Element) (bool, error) {
		for _, p := range preds {
			ok, err := p(el)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}
