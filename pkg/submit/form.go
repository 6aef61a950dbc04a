package submit

import (
	"strings"
	"sync"
)

const (
	// DefaultFormID is the element id the handler listens on.
	DefaultFormID = "jsonForm"
	// DefaultResultID is the element id outcomes are rendered into.
	DefaultResultID = "result"

	// FieldJSONData and FieldJSONFile are the inputs the parse service reads.
	FieldJSONData = "jsonData"
	FieldJSONFile = "jsonFile"
)

// Field is a single form input. File fields carry a filename and raw
// contents; text fields only Value.
type Field struct {
	Name     string
	Value    string
	Filename string
	Content  []byte
	IsFile   bool
}

// Text returns a text field.
func Text(name, value string) Field {
	return Field{Name: strings.TrimSpace(name), Value: value}
}

// File returns a file upload field.
func File(name, filename string, content []byte) Field {
	return Field{
		Name:     strings.TrimSpace(name),
		Filename: filename,
		Content:  append([]byte(nil), content...),
		IsFile:   true,
	}
}

// Form is a named, ordered collection of fields owned by the page. It may be
// edited while a submission is in flight; the handler snapshots it.
type Form struct {
	ID string

	mu     sync.RWMutex
	fields []Field
}

// NewForm constructs a form with the given id and initial fields. Fields with
// empty names are dropped.
func NewForm(id string, fields ...Field) *Form {
	f := &Form{ID: strings.TrimSpace(id)}
	for _, field := range fields {
		f.Set(field)
	}
	return f
}

// Set replaces the first field with the same name or appends a new one.
func (f *Form) Set(field Field) {
	name := strings.TrimSpace(field.Name)
	if name == "" {
		return
	}
	field.Name = name

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.fields {
		if f.fields[i].Name == name {
			f.fields[i] = field
			return
		}
	}
	f.fields = append(f.fields, field)
}

// Remove drops every field named name.
func (f *Form) Remove(name string) {
	name = strings.TrimSpace(name)

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.fields[:0]
	for _, field := range f.fields {
		if field.Name != name {
			kept = append(kept, field)
		}
	}
	f.fields = kept
}

// Snapshot returns a copy of the current field values in order.
func (f *Form) Snapshot() []Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Field, len(f.fields))
	for i, field := range f.fields {
		field.Content = append([]byte(nil), field.Content...)
		out[i] = field
	}
	return out
}

// Event is a submit event targeting a form.
type Event struct {
	Form *Form

	mu        sync.Mutex
	prevented bool
}

// NewSubmitEvent returns a submit event for form.
func NewSubmitEvent(form *Form) *Event {
	return &Event{Form: form}
}

// PreventDefault suppresses the default full page navigation.
func (e *Event) PreventDefault() {
	e.mu.Lock()
	e.prevented = true
	e.mu.Unlock()
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevented
}
