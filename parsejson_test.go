package parsejson_test

import (
	"context"
	"net/http/httptest"
	"testing"

	parsejson "github.com/goliatone/go-parsejson"
)

func TestSubmitTextRoundTrip(t *testing.T) {
	handler, err := parsejson.Handler()
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	outcome, el, err := parsejson.SubmitText(context.Background(), srv.URL, `{"name": "value"}`, parsejson.ModeCompact)
	if err != nil {
		t.Fatalf("SubmitText returned error: %v", err)
	}
	if !outcome.OK() {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if got, want := el.Text(), `Parsed Result: {"name":"value"}`; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}

	outcome, el, err = parsejson.SubmitText(context.Background(), srv.URL, `{"name" "value"}`, parsejson.ModePretty)
	if err != nil {
		t.Fatalf("SubmitText returned error: %v", err)
	}
	if outcome.Kind.String() != "app_error" || el.Text() != "Error: Expected ':' at offset 8" {
		t.Fatalf("unexpected outcome %+v / %q", outcome, el.Text())
	}
}

func TestParse(t *testing.T) {
	if _, err := parsejson.Parse(`[1, 2`); err == nil {
		t.Fatalf("expected error for unterminated array")
	}
}
