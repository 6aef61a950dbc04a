package submit

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Display is a result element. SetText replaces the element's content with
// plain text; SetHTML clears the element and inserts markup in its place.
type Display interface {
	SetText(text string)
	SetHTML(markup string)
}

// Element is an in-memory result element. Writes are serialised and the last
// one wins.
type Element struct {
	ID string

	mu        sync.RWMutex
	text      string
	markup    string
	isMarkup  bool
	mutations int
}

var _ Display = (*Element)(nil)

// NewElement returns an empty element with the given id.
func NewElement(id string) *Element {
	return &Element{ID: id}
}

// SetText implements Display.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	e.markup = ""
	e.isMarkup = false
	e.mutations++
}

// SetHTML implements Display.
func (e *Element) SetHTML(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markup = markup
	e.text = textContent(markup)
	e.isMarkup = true
	e.mutations++
}

// Text returns the element's text content. For markup it is the markup with
// tags removed and entities decoded.
func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// HTML returns the element's inner markup. Plain text is escaped.
func (e *Element) HTML() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.isMarkup {
		return e.markup
	}
	return html.EscapeString(e.text)
}

// Mutations reports how many times the element has been written.
func (e *Element) Mutations() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mutations
}

// TerminalDisplay writes each update to an io.Writer, one block per write.
type TerminalDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

var _ Display = (*TerminalDisplay)(nil)

// NewTerminalDisplay returns a Display printing to out.
func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{out: out}
}

// SetText implements Display.
func (d *TerminalDisplay) SetText(text string) {
	d.write(text)
}

// SetHTML implements Display. Markup is reduced to its text content.
func (d *TerminalDisplay) SetHTML(markup string) {
	d.write(textContent(markup))
}

func (d *TerminalDisplay) write(text string) {
	if d == nil || d.out == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.out, strings.TrimRight(text, "\n"))
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
	stripPolicyOnce  sync.Once
	stripPolicy      *bluemonday.Policy
)

// resultSanitizer allows only the pre-formatted block the pretty renderer
// emits.
func resultSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("pre")
		policy.AllowAttrs("class").OnElements("pre")
		markupPolicy = policy
	})
	return markupPolicy
}

func textContent(markup string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(stripPolicy.Sanitize(markup))
}
