package browser

import (
	"github.com/playwright-community/playwright-go"

	"github.com/umputun/memories-e2e/pkg/locate"
)

// element adapts a playwright locator bound to one match into locate.Element.
type element struct {
	loc playwright.Locator
}

func wrapAll(locs []playwright.Locator) []locate.Element {
	res := make([]locate.Element, 0, len(locs))
	for _, l := range locs {
		res = append(res, &element{loc: l})
	}
	return res
}

// selectorFor translates a candidate into a playwright selector with an explicit engine prefix.
func selectorFor(c locate.Candidate) string {
	switch c.Strategy {
	case locate.XPath:
		return "xpath=" + c.Locator
	case locate.Text:
		return "text=" + c.Locator
	default: // css and tag names are both css selectors
		return "css=" + c.Locator
	}
}

func (e *element) IsVisible() (bool, error) { return e.loc.IsVisible() }

func (e *element) IsEnabled() (bool, error) { return e.loc.IsEnabled() }

func (e *element) Text() (string, error) { return e.loc.InnerText() }

func (e *element) TagName() (string, error) {
	v, err := e.loc.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err != nil {
		return "", err
	}
	tag, _ := v.(string)
	return tag, nil
}

func (e *element) Width() (float64, error) {
	box, err := e.loc.BoundingBox()
	if err != nil {
		return 0, err
	}
	if box == nil {
		return 0, nil
	}
	return box.Width, nil
}

func (e *element) Click() error { return e.loc.Click() }

// Fill replaces the current value, playwright clears the field before typing.
func (e *element) Fill(value string) error { return e.loc.Fill(value) }

func (e *element) Press(key string) error { return e.loc.Press(key) }

func (e *element) Query(c locate.Candidate) ([]locate.Element, error) {
	locs, err := e.loc.Locator(selectorFor(c)).All()
	if err != nil {
		return nil, err
	}
	return wrapAll(locs), nil
}

// optionsScript returns option labels and the selected label of a <select>.
const optionsScript = `el => ({
	labels: Array.from(el.options || []).map(o => o.text),
	selected: el.selectedIndex >= 0 && el.options[el.selectedIndex] ? el.options[el.selectedIndex].text : ""
})`

func (e *element) Options() (labels []string, selected string, err error) {
	v, err := e.loc.Evaluate(optionsScript, nil)
	if err != nil {
		return nil, "", err
	}
	labels, selected = parseOptions(v)
	return labels, selected, nil
}

func (e *element) SelectOption(label string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}})
	return err
}

// parseOptions decodes the result of optionsScript as returned by the driver.
func parseOptions(v any) (labels []string, selected string) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ""
	}
	if raw, ok := m["labels"].([]any); ok {
		for _, l := range raw {
			if s, ok := l.(string); ok {
				labels = append(labels, s)
			}
		}
	}
	selected, _ = m["selected"].(string)
	return labels, selected
}
