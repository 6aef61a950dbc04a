package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	cases := []struct {
		name  string
		path  string
		stdin string
		code  int
		out   string
	}{
		{"valid file", write("ok.json", `{"a": [1, 2]}`), "", 0, "Valid JSON\n"},
		{"invalid file", write("bad.json", `{"a" 1}`), "", 1, "Invalid JSON: Expected ':' at offset 5\n"},
		{"empty file", write("empty.json", "  \n"), "", 1, "Invalid JSON: Empty input at offset 0\n"},
		{"stdin", "-", `[true, null]`, 0, "Valid JSON\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			code := validate(tc.path, strings.NewReader(tc.stdin), &out, 512)
			if code != tc.code || out.String() != tc.out {
				t.Fatalf("validate = %d %q, want %d %q", code, out.String(), tc.code, tc.out)
			}
		})
	}

	var out bytes.Buffer
	if code := validate(filepath.Join(dir, "missing.json"), nil, &out, 512); code != 1 || !strings.HasPrefix(out.String(), "Invalid JSON: ") {
		t.Fatalf("missing file = %d %q", code, out.String())
	}
}

func TestBuildForm(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	form, err := buildForm(`[1]`, path)
	if err != nil {
		t.Fatalf("buildForm returned error: %v", err)
	}
	want := []submit.Field{
		submit.Text(submit.FieldJSONData, `[1]`),
		submit.File(submit.FieldJSONFile, "doc.json", []byte(`{}`)),
	}
	if diff := cmp.Diff(want, form.Snapshot()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if form.ID != submit.DefaultFormID {
		t.Fatalf("form id = %q", form.ID)
	}

	for _, file := range []string{"", "   "} {
		if _, err := buildForm("", file); err == nil {
			t.Fatalf("expected usage error for file %q", file)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if got := summary(submit.Outcome{Kind: submit.OutcomeAppError, Message: "Expected ':'"}); got != "Rejected by the server: Expected ':'" {
		t.Fatalf("summary = %q", got)
	}
	if got := summary(submit.Outcome{Kind: submit.OutcomeTransportError}); !strings.HasPrefix(got, "Submission failed") {
		t.Fatalf("summary = %q", got)
	}
}
