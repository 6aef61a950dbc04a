package submit_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

func jsonServer(t *testing.T, status int, body string, inspect func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newHandler(t *testing.T, el *submit.Element, base string, opts ...submit.Option) *submit.Handler {
	t.Helper()
	opts = append([]submit.Option{submit.WithBaseURL(base)}, opts...)
	h, err := submit.New(el, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return h
}

func TestHandleCompactResult(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotField, gotRequestID string
	srv := jsonServer(t, http.StatusOK, `{"result": {"ok": true}}`, func(r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(submit.RequestIDHeader)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		gotField = r.FormValue("name")
	})

	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, srv.URL)

	ev := submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID, submit.Text("name", "value")))
	outcome, err := h.Handle(context.Background(), ev)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if !ev.DefaultPrevented() {
		t.Fatalf("expected default action to be prevented")
	}
	if gotMethod != http.MethodPost || gotPath != submit.DefaultEndpoint {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotField != "value" {
		t.Fatalf("server saw name=%q, want value", gotField)
	}
	if gotRequestID == "" || gotRequestID != outcome.RequestID {
		t.Fatalf("request id header %q does not match outcome %q", gotRequestID, outcome.RequestID)
	}
	if outcome.Kind != submit.OutcomeOK {
		t.Fatalf("outcome kind = %s, want ok", outcome.Kind)
	}
	if got, want := el.Text(), `Parsed Result: {"ok":true}`; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}
	if el.Mutations() != 1 {
		t.Fatalf("expected exactly one mutation, got %d", el.Mutations())
	}
}

func TestHandlePrettyResult(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, http.StatusOK, `{"result": {"ok": true, "tag": "<b>"}}`, nil)
	el := submit.NewElement(submit.DefaultResultID)
	el.SetText("previous")
	h := newHandler(t, el, srv.URL, submit.WithMode(submit.ModePretty))

	outcome, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID)))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if outcome.Kind != submit.OutcomeOK {
		t.Fatalf("outcome kind = %s, want ok", outcome.Kind)
	}

	want := "{\n  \"ok\": true,\n  \"tag\": \"<b>\"\n}"
	if diff := cmp.Diff(want, el.Text()); diff != "" {
		t.Fatalf("pretty text mismatch (-want +got):\n%s", diff)
	}
	markup := el.HTML()
	if !strings.HasPrefix(markup, "<pre>") || !strings.HasSuffix(markup, "</pre>") {
		t.Fatalf("expected a pre block, got %q", markup)
	}
	if strings.Contains(markup, "<b>") {
		t.Fatalf("result markup must be escaped, got %q", markup)
	}
}

func TestHandleAppError(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, http.StatusBadRequest, `{"error": "invalid syntax"}`, nil)
	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, srv.URL, submit.WithMode(submit.ModePretty))

	outcome, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID)))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if outcome.Kind != submit.OutcomeAppError || outcome.Message != "invalid syntax" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if got, want := el.Text(), "Error: invalid syntax"; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}
}

func TestHandleTransportFailures(t *testing.T) {
	t.Parallel()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	malformed := jsonServer(t, http.StatusOK, `<html>oops</html>`, nil)
	nullBody := jsonServer(t, http.StatusOK, `null`, nil)

	cases := []struct {
		name string
		base string
	}{
		{"connection refused", closedURL},
		{"malformed body", malformed.URL},
		{"null body", nullBody.URL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			el := submit.NewElement(submit.DefaultResultID)
			h := newHandler(t, el, tc.base, submit.WithLogger(zap.New(core)))

			outcome, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID)))
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if outcome.Kind != submit.OutcomeTransportError || outcome.Err == nil {
				t.Fatalf("unexpected outcome %+v", outcome)
			}
			if got := el.Text(); got != submit.FallbackMessage {
				t.Fatalf("display = %q, want fallback", got)
			}
			if logs.FilterMessage("submission failed").Len() != 1 {
				t.Fatalf("expected the failure to be logged once, got %v", logs.All())
			}
		})
	}
}

func TestHandleMissingResultRendersUndefined(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, http.StatusOK, `{"error": "", "other": 1}`, nil)
	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, srv.URL)

	if _, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID))); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if got, want := el.Text(), "Parsed Result: undefined"; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}
}

func TestHandleRejectsMisuse(t *testing.T) {
	t.Parallel()

	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, "http://127.0.0.1:1")

	if _, err := h.Handle(context.Background(), nil); !errors.Is(err, submit.ErrNilEvent) {
		t.Fatalf("expected ErrNilEvent, got %v", err)
	}

	ev := submit.NewSubmitEvent(submit.NewForm("otherForm"))
	if _, err := h.Handle(context.Background(), ev); !errors.Is(err, submit.ErrFormMismatch) {
		t.Fatalf("expected ErrFormMismatch, got %v", err)
	}
	if !ev.DefaultPrevented() {
		t.Fatalf("default action must be prevented even when the form is ignored")
	}
	if el.Mutations() != 0 {
		t.Fatalf("display must not change on misuse")
	}
}

func TestDispatchLastResponseWins(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := r.FormValue(submit.FieldJSONData)
		if data == "slow" {
			<-release
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"result": data})
	}))
	t.Cleanup(srv.Close)

	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, srv.URL)
	slowForm := submit.NewForm(submit.DefaultFormID, submit.Text(submit.FieldJSONData, "slow"))
	fastForm := submit.NewForm(submit.DefaultFormID, submit.Text(submit.FieldJSONData, "fast"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slow := h.Dispatch(ctx, submit.NewSubmitEvent(slowForm))
	fast := h.Dispatch(ctx, submit.NewSubmitEvent(fastForm))

	if outcome := <-fast; outcome.Kind != submit.OutcomeOK {
		t.Fatalf("fast submission failed: %+v", outcome)
	}
	if got := el.Text(); got != `Parsed Result: "fast"` {
		t.Fatalf("display after fast = %q", got)
	}

	close(release)
	if outcome := <-slow; outcome.Kind != submit.OutcomeOK {
		t.Fatalf("slow submission failed: %+v", outcome)
	}
	if got := el.Text(); got != `Parsed Result: "slow"` {
		t.Fatalf("display after slow = %q", got)
	}
	if el.Mutations() != 2 {
		t.Fatalf("expected one mutation per submission, got %d", el.Mutations())
	}
}

func TestHandleNormalizesNumbersAndDeepResults(t *testing.T) {
	t.Parallel()

	numbers := jsonServer(t, http.StatusOK, `{"result":{"n":1.50,"e":1e2,"z":-0,"big":1E+21}}`, nil)
	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, numbers.URL)
	if _, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID))); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if got, want := el.Text(), `Parsed Result: {"n":1.5,"e":100,"z":0,"big":1e+21}`; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}

	nested := strings.Repeat("[", 600) + strings.Repeat("]", 600)
	deep := jsonServer(t, http.StatusOK, `{"result": `+nested+`}`, nil)
	el = submit.NewElement(submit.DefaultResultID)
	h = newHandler(t, el, deep.URL)
	outcome, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID)))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if outcome.Kind != submit.OutcomeOK || el.Text() != submit.ResultPrefix+nested {
		t.Fatalf("deep result not rendered: %s", outcome.Kind)
	}
}

func TestHandleNonStringErrorLikeConcatenation(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, http.StatusBadRequest, `{"error":["a","b"]}`, nil)
	el := submit.NewElement(submit.DefaultResultID)
	h := newHandler(t, el, srv.URL)
	if _, err := h.Handle(context.Background(), submit.NewSubmitEvent(submit.NewForm(submit.DefaultFormID))); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if got, want := el.Text(), "Error: a,b"; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}
}
