package form

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Input types that never take part in form serialization.
var skippedInputTypes = map[string]bool{
	"submit": true,
	"button": true,
	"image":  true,
	"reset":  true,
	"file":   true,
}

func inputType(n *html.Node) string {
	t, _ := attr(n, "type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}

func submittable(n *html.Node) bool {
	if name, _ := attr(n, "name"); name == "" {
		return false
	}
	if disabled(n) {
		return false
	}
	if n.DataAtom != atom.Input {
		return true
	}

	t := inputType(n)
	if skippedInputTypes[t] {
		return false
	}
	if t == "checkbox" || t == "radio" {
		return hasAttr(n, "checked")
	}
	return true
}

// disabled reports whether the control is disabled itself or sits inside a
// disabled fieldset outside that fieldset's first legend.
func disabled(n *html.Node) bool {
	if hasAttr(n, "disabled") {
		return true
	}
	child := n
	for p := n.Parent; p != nil; child, p = p, p.Parent {
		if p.DataAtom != atom.Fieldset || !hasAttr(p, "disabled") {
			continue
		}
		if child != firstLegend(p) {
			return true
		}
	}
	return false
}

func firstLegend(fieldset *html.Node) *html.Node {
	for c := fieldset.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Legend {
			return c
		}
	}
	return nil
}

// controlValues returns the values a control contributes. Multi-selects
// may contribute several, a select without options none.
func controlValues(n *html.Node) []string {
	switch n.DataAtom {
	case atom.Textarea:
		return []string{text(n)}
	case atom.Select:
		return selectedValues(n)
	}

	v, ok := attr(n, "value")
	if !ok {
		switch inputType(n) {
		case "checkbox", "radio":
			return []string{"on"}
		}
	}
	return []string{v}
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	walk(sel, func(n *html.Node) {
		if n.DataAtom == atom.Option {
			out = append(out, n)
		}
	})
	return out
}

func optionValue(opt *html.Node) string {
	if v, ok := attr(opt, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(text(opt)), " ")
}

func optionDisabled(opt *html.Node) bool {
	if hasAttr(opt, "disabled") {
		return true
	}
	p := opt.Parent
	return p != nil && p.DataAtom == atom.Optgroup && hasAttr(p, "disabled")
}

func selectedValues(sel *html.Node) []string {
	opts := options(sel)
	if len(opts) == 0 {
		return nil
	}

	if hasAttr(sel, "multiple") {
		var values []string
		for _, o := range opts {
			if hasAttr(o, "selected") && !optionDisabled(o) {
				values = append(values, optionValue(o))
			}
		}
		return values
	}

	// A single select shows its last selected option, or the first enabled
	// one when nothing is selected.
	var chosen *html.Node
	for _, o := range opts {
		if hasAttr(o, "selected") {
			chosen = o
		}
	}
	if chosen == nil {
		for _, o := range opts {
			if !optionDisabled(o) {
				chosen = o
				break
			}
		}
	}
	if chosen == nil || optionDisabled(chosen) {
		return nil
	}
	return []string{optionValue(chosen)}
}

func selectOption(sel *html.Node, value string) error {
	opts := options(sel)
	var match *html.Node
	for _, o := range opts {
		if optionValue(o) == value {
			match = o
			break
		}
	}
	if match == nil {
		name, _ := attr(sel, "name")
		return fmt.Errorf("%w: %s=%q", ErrNoSuchOption, name, value)
	}

	multiple := hasAttr(sel, "multiple")
	for _, o := range opts {
		if o == match {
			setAttr(o, "selected", "")
		} else if !multiple {
			removeAttr(o, "selected")
		}
	}
	return nil
}

// checkMatching checks the checkbox or radio whose value matches. Radios in
// the same group are unchecked.
func checkMatching(group []*html.Node, value string) error {
	var match *html.Node
	for _, n := range group {
		if controlValues(n)[0] == value {
			match = n
			break
		}
	}
	if match == nil {
		name, _ := attr(group[0], "name")
		return fmt.Errorf("%w: %s=%q", ErrNoSuchOption, name, value)
	}

	for _, n := range group {
		if n == match {
			setAttr(n, "checked", "")
		} else if inputType(n) == "radio" {
			removeAttr(n, "checked")
		}
	}
	return nil
}

func normalizeNewlines(v string) string {
	if !strings.Contains(v, "\n") {
		return v
	}
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return strings.ReplaceAll(v, "\n", "\r\n")
}
