package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the path submissions are POSTed to.
	DefaultEndpoint = "/parse-json"
	// RequestIDHeader carries the per submission id to the server logs.
	RequestIDHeader = "X-Request-ID"
)

var (
	// ErrNilEvent is returned when Handle receives no event.
	ErrNilEvent = errors.New("submit: event is nil")
	// ErrFormMismatch is returned when the event targets a form the handler
	// is not listening on.
	ErrFormMismatch = errors.New("submit: event targets a different form")
	// ErrInvalidResponse wraps bodies that are not JSON.
	ErrInvalidResponse = errors.New("submit: response is not valid JSON")
)

// Handler intercepts submit events on one form and renders the parse
// service's response into one result element. It is safe for concurrent use.
type Handler struct {
	display  Display
	client   *http.Client
	baseURL  string
	endpoint string
	formID   string
	mode     Mode
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithHTTPClient overrides the client used for submissions.
func WithHTTPClient(client *http.Client) Option {
	return func(h *Handler) {
		if client != nil {
			h.client = client
		}
	}
}

// WithBaseURL sets the origin the endpoint is resolved against, for example
// "http://localhost:5000".
func WithBaseURL(base string) Option {
	return func(h *Handler) {
		h.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(path string) Option {
	return func(h *Handler) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			h.endpoint = trimmed
		}
	}
}

// WithFormID overrides DefaultFormID.
func WithFormID(id string) Option {
	return func(h *Handler) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			h.formID = trimmed
		}
	}
}

// WithMode selects the rendering policy for successful results.
func WithMode(mode Mode) Option {
	return func(h *Handler) {
		if mode != "" {
			h.mode = mode
		}
	}
}

// WithLogger sets the diagnostic logger. Transport failures are logged at
// error level.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New constructs a Handler rendering into display.
func New(display Display, options ...Option) (*Handler, error) {
	if display == nil {
		return nil, errors.New("submit: display is required")
	}
	h := &Handler{
		display:  display,
		client:   http.DefaultClient,
		endpoint: DefaultEndpoint,
		formID:   DefaultFormID,
		mode:     ModeCompact,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if _, err := ParseMode(string(h.mode)); err != nil {
		return nil, err
	}
	return h, nil
}

// Mode reports the rendering policy in use.
func (h *Handler) Mode() Mode {
	return h.mode
}

// URL reports the absolute or relative URL submissions are sent to.
func (h *Handler) URL() string {
	if strings.HasPrefix(h.endpoint, "http://") || strings.HasPrefix(h.endpoint, "https://") {
		return h.endpoint
	}
	endpoint := h.endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return h.baseURL + endpoint
}

// Handle runs one submission to completion. The event's default action is
// suppressed before anything else happens. The returned error is reserved for
// misuse (nil event, wrong form); request and response failures are reported
// through the Outcome and the display.
func (h *Handler) Handle(ctx context.Context, ev *Event) (Outcome, error) {
	if ev == nil {
		return Outcome{}, ErrNilEvent
	}
	ev.PreventDefault()

	if ev.Form == nil || ev.Form.ID != h.formID {
		return Outcome{}, ErrFormMismatch
	}

	requestID := uuid.NewString()
	logger := h.logger.With(zap.String("request_id", requestID), zap.String("form", h.formID))

	payload, err := EncodePayload(ev.Form.Snapshot())
	if err != nil {
		return h.fail(logger, requestID, err), nil
	}

	start := h.now()
	body, err := h.post(ctx, requestID, payload)
	if err != nil {
		return h.fail(logger, requestID, err), nil
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return h.fail(logger, requestID, err), nil
	}

	if truthy(resp.Error) {
		message := errorText(resp.Error)
		logger.Debug("submission rejected", zap.String("error", message), zap.Duration("elapsed", h.now().Sub(start)))
		return Outcome{
			Kind:      OutcomeAppError,
			RequestID: requestID,
			Message:   message,
			Display:   RenderAppError(h.display, message),
		}, nil
	}

	text, err := RenderResult(h.display, h.mode, resp.Result)
	if err != nil {
		return h.fail(logger, requestID, err), nil
	}
	logger.Debug("submission parsed", zap.String("mode", string(h.mode)), zap.Duration("elapsed", h.now().Sub(start)))

	return Outcome{
		Kind:      OutcomeOK,
		RequestID: requestID,
		Result:    resp.Result,
		Display:   text,
	}, nil
}

// Dispatch runs Handle in its own goroutine and returns immediately. The
// channel receives exactly one Outcome and is then closed. Misuse errors are
// reported as a transport outcome without touching the display.
func (h *Handler) Dispatch(ctx context.Context, ev *Event) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		outcome, err := h.Handle(ctx, ev)
		if err != nil {
			outcome = Outcome{Kind: OutcomeTransportError, Err: err}
		}
		out <- outcome
	}()
	return out
}

func (h *Handler) fail(logger *zap.Logger, requestID string, err error) Outcome {
	logger.Error("submission failed", zap.Error(err))
	return Outcome{
		Kind:      OutcomeTransportError,
		RequestID: requestID,
		Err:       err,
		Display:   RenderFallback(h.display),
	}
}

func (h *Handler) post(ctx context.Context, requestID string, payload Payload) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL(), bytes.NewReader(payload.Body))
	if err != nil {
		return nil, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", payload.ContentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit: send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// The status code is not inspected: the service reports application
	// errors with a 400 and a JSON body.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("submit: read response: %w", err)
	}
	return body, nil
}

type response struct {
	Error  json.RawMessage
	Result json.RawMessage
}

// decodeResponse accepts any JSON document. Members are only read from
// objects; other documents decode to an empty response, except null which
// has no members to read at all.
func decodeResponse(body []byte) (response, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return response{}, ErrInvalidResponse
	}
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return response{}, fmt.Errorf("%w: null body", ErrInvalidResponse)
	case trimmed[0] != '{':
		return response{}, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return response{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return response{Error: members["error"], Result: members["result"]}, nil
}
