// Package parsejson wires the parse service and its form submission client
// together for callers that do not need the individual packages.
package parsejson

import (
	"context"
	"net/http"

	"github.com/goliatone/go-parsejson/pkg/jsonparse"
	"github.com/goliatone/go-parsejson/pkg/server"
	"github.com/goliatone/go-parsejson/pkg/submit"
)

// Mode aliases submit.Mode so callers can pick a rendering policy without
// importing the submit package.
type Mode = submit.Mode

const (
	ModeCompact = submit.ModeCompact
	ModePretty  = submit.ModePretty
)

// Outcome aliases submit.Outcome.
type Outcome = submit.Outcome

// Parse parses a JSON document with the service's lexer and parser.
func Parse(input string) (any, error) {
	return jsonparse.Parse(input)
}

// Handler returns the complete HTTP service.
func Handler(options ...server.OptionFn) (http.Handler, error) {
	return server.NewHandler(options...)
}

// NewSubmitter returns a form submission handler rendering into display.
func NewSubmitter(display submit.Display, options ...submit.Option) (*submit.Handler, error) {
	return submit.New(display, options...)
}

// SubmitText is the one-shot path: it fills a jsonForm with data, submits it
// to baseURL and returns the outcome together with the result element.
func SubmitText(ctx context.Context, baseURL, data string, mode Mode, options ...submit.Option) (Outcome, *submit.Element, error) {
	el := submit.NewElement(submit.DefaultResultID)
	opts := append([]submit.Option{submit.WithBaseURL(baseURL), submit.WithMode(mode)}, options...)
	h, err := submit.New(el, opts...)
	if err != nil {
		return Outcome{}, nil, err
	}
	form := submit.NewForm(submit.DefaultFormID, submit.Text(submit.FieldJSONData, data))
	outcome, err := h.Handle(ctx, submit.NewSubmitEvent(form))
	if err != nil {
		return Outcome{}, nil, err
	}
	return outcome, el, nil
}
