package tui

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

type fakeDriver struct {
	selects  []int
	text     string
	input    string
	confirm  bool
	infos    []string
	prompts  []string
	inputErr error
}

func (f *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	f.prompts = append(f.prompts, cfg.Message)
	if f.inputErr != nil {
		return "", f.inputErr
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(f.input); err != nil {
			return "", err
		}
	}
	return f.input, nil
}

func (f *fakeDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	f.prompts = append(f.prompts, cfg.Message)
	return f.confirm, nil
}

func (f *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	f.prompts = append(f.prompts, cfg.Message)
	if len(f.selects) == 0 {
		return cfg.DefaultIndex, nil
	}
	next := f.selects[0]
	f.selects = f.selects[1:]
	return next, nil
}

func (f *fakeDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	f.prompts = append(f.prompts, cfg.Message)
	return f.text, nil
}

func (f *fakeDriver) Info(_ context.Context, msg string) error {
	f.infos = append(f.infos, msg)
	return nil
}

func TestCollectText(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{selects: []int{0}, text: `{"a": 1}`}
	answers, err := New(WithPromptDriver(driver)).Collect(context.Background(), submit.ModePretty)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if answers.Mode != submit.ModePretty {
		t.Fatalf("mode = %q, want pretty default", answers.Mode)
	}
	fields := answers.Form.Snapshot()
	want := []submit.Field{submit.Text(submit.FieldJSONData, `{"a": 1}`)}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if answers.Form.ID != submit.DefaultFormID {
		t.Fatalf("form id = %q", answers.Form.ID)
	}
}

func TestCollectFile(t *testing.T) {
	t.Parallel()

	reader := func(path string) ([]byte, error) {
		if path != "/tmp/doc.json" {
			return nil, os.ErrNotExist
		}
		return []byte(`[1]`), nil
	}
	driver := &fakeDriver{selects: []int{1, 0}, input: " /tmp/doc.json "}
	answers, err := New(WithPromptDriver(driver), WithFileReader(reader)).Collect(context.Background(), submit.ModePretty)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if answers.Mode != submit.ModeCompact {
		t.Fatalf("mode = %q, want compact", answers.Mode)
	}
	want := []submit.Field{submit.File(submit.FieldJSONFile, "doc.json", []byte(`[1]`))}
	if diff := cmp.Diff(want, answers.Form.Snapshot()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectPropagatesAbort(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{selects: []int{1}, inputErr: ErrAborted}
	_, err := New(WithPromptDriver(driver)).Collect(context.Background(), submit.ModeCompact)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestCollectRejectsUnknownSelection(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{selects: []int{-1}}
	_, err := New(WithPromptDriver(driver)).Collect(context.Background(), submit.ModeCompact)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestIndexOf(t *testing.T) {
	t.Parallel()

	if got := indexOf(modeOptions, "pretty"); got != 1 {
		t.Fatalf("indexOf = %d", got)
	}
	if got := indexOf(modeOptions, "fancy"); got != -1 {
		t.Fatalf("indexOf unknown = %d", got)
	}
}

func TestInfoForwardsToDriver(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	c := New(WithPromptDriver(driver))
	if err := c.Info(context.Background(), "Rejected by the server: Empty input"); err != nil {
		t.Fatalf("Info returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Rejected by the server: Empty input"}, driver.infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
}
