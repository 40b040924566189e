package form

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrFormNotFound is returned when no form carries the requested id
	ErrFormNotFound = errors.New("form not found")
	// ErrControlNotFound is returned when a form has no control with the requested name
	ErrControlNotFound = errors.New("control not found")
	// ErrNoSuchOption is returned when a select, checkbox or radio control cannot take a value
	ErrNoSuchOption = errors.New("no control option matches value")
)

// Fields maps a control name to its current value.
type Fields map[string]string

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFile reads an HTML page from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// ParseString reads an HTML page held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the page with its current control values.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// HasForm reports whether a form with the given id exists.
func (d *Document) HasForm(formID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findForm(formID) != nil
}

// FormIDs lists the ids of all forms in document order.
func (d *Document) FormIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	walk(d.root, func(n *html.Node) {
		if n.DataAtom == atom.Form {
			if id, ok := attr(n, "id"); ok && id != "" {
				ids = append(ids, id)
			}
		}
	})
	return ids
}

// Fields serializes the form with the given id. An unknown id yields an
// empty mapping.
func (d *Document) Fields(formID string) Fields {
	d.mu.RLock()
	defer d.mu.RUnlock()

	fields := make(Fields)
	for _, c := range d.controls(formID) {
		if !submittable(c) {
			continue
		}
		name, _ := attr(c, "name")
		for _, v := range controlValues(c) {
			fields[name] = normalizeNewlines(v)
		}
	}
	return fields
}

// SetValue sets the current value of the named control in the given form.
// Checkboxes and radios are checked when their value matches, select
// controls select the matching option.
func (d *Document) SetValue(formID, name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findForm(formID) == nil {
		return fmt.Errorf("%w: %s", ErrFormNotFound, formID)
	}

	var named []*html.Node
	for _, c := range d.controls(formID) {
		if n, _ := attr(c, "name"); n == name {
			named = append(named, c)
		}
	}
	if len(named) == 0 {
		return fmt.Errorf("%w: %s in form %s", ErrControlNotFound, name, formID)
	}

	first := named[0]
	switch first.DataAtom {
	case atom.Textarea:
		setText(first, value)
		return nil
	case atom.Select:
		return selectOption(first, value)
	}

	switch inputType(first) {
	case "checkbox", "radio":
		return checkMatching(named, value)
	}

	setAttr(first, "value", value)
	return nil
}

// findForm resolves the id to the first element carrying it, as an id
// selector would. When that element is not a form there is no form.
func (d *Document) findForm(formID string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) {
		if found != nil {
			return
		}
		if id, ok := attr(n, "id"); ok && id == formID {
			found = n
		}
	})
	if found == nil || found.DataAtom != atom.Form {
		return nil
	}
	return found
}

// controls returns the input, select and textarea elements owned by the
// form, in document order.
func (d *Document) controls(formID string) []*html.Node {
	form := d.findForm(formID)
	if form == nil {
		return nil
	}

	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Input, atom.Select, atom.Textarea:
		default:
			return
		}
		if owner, ok := attr(n, "form"); ok {
			if owner == formID {
				out = append(out, n)
			}
			return
		}
		if enclosingForm(n) == form {
			out = append(out, n)
		}
	})
	return out
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func enclosingForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func setText(n *html.Node, value string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
}
