// Package tui collects a parse form interactively from a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

const (
	sourceText = "Type or paste JSON"
	sourceFile = "Load a JSON file"
)

var sourceOptions = []string{sourceText, sourceFile}

var modeOptions = []string{string(submit.ModeCompact), string(submit.ModePretty)}

// Answers is what one pass of Collect produced.
type Answers struct {
	Form *submit.Form
	Mode submit.Mode
}

// Collector walks the user through filling in the form.
type Collector struct {
	driver   PromptDriver
	formID   string
	readFile func(string) ([]byte, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithFormID overrides submit.DefaultFormID.
func WithFormID(id string) Option {
	return func(c *Collector) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			c.formID = trimmed
		}
	}
}

// WithFileReader replaces os.ReadFile.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(c *Collector) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// New constructs a Collector using the survey driver by default.
func New(options ...Option) *Collector {
	c := &Collector{
		driver:   NewSurveyDriver(),
		formID:   submit.DefaultFormID,
		readFile: os.ReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Collect prompts for the document source, the document and the render
// mode. defaultMode preselects the mode prompt.
func (c *Collector) Collect(ctx context.Context, defaultMode submit.Mode) (Answers, error) {
	if ctx == nil {
		return Answers{}, errors.New("tui: context is required")
	}

	source, err := c.driver.Select(ctx, SelectConfig{
		Message: "Where is the JSON document?",
		Options: sourceOptions,
	})
	if err != nil {
		return Answers{}, err
	}

	form := submit.NewForm(c.formID)
	switch source {
	case 0:
		text, err := c.driver.TextArea(ctx, TextAreaConfig{
			Message: "JSON document",
			Help:    "Finish with an empty line.",
		})
		if err != nil {
			return Answers{}, err
		}
		form.Set(submit.Text(submit.FieldJSONData, text))
	case 1:
		path, err := c.driver.Input(ctx, InputConfig{
			Message:   "Path to the JSON file",
			Validator: c.validatePath,
		})
		if err != nil {
			return Answers{}, err
		}
		path = strings.TrimSpace(path)
		content, err := c.readFile(path)
		if err != nil {
			return Answers{}, fmt.Errorf("tui: read %s: %w", path, err)
		}
		form.Set(submit.File(submit.FieldJSONFile, filepath.Base(path), content))
	default:
		return Answers{}, ErrNoSelection
	}

	defaultIndex := 0
	if defaultMode == submit.ModePretty {
		defaultIndex = 1
	}
	modeIndex, err := c.driver.Select(ctx, SelectConfig{
		Message:      "How should the result be shown?",
		Options:      modeOptions,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return Answers{}, err
	}
	if modeIndex < 0 || modeIndex >= len(modeOptions) {
		return Answers{}, ErrNoSelection
	}

	return Answers{Form: form, Mode: submit.Mode(modeOptions[modeIndex])}, nil
}

// Again asks whether to submit another document.
func (c *Collector) Again(ctx context.Context) (bool, error) {
	return c.driver.Confirm(ctx, ConfirmConfig{Message: "Parse another document?", Default: true})
}

// Info prints a message through the driver.
func (c *Collector) Info(ctx context.Context, msg string) error {
	return c.driver.Info(ctx, msg)
}

func (c *Collector) validatePath(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return errors.New("path is required")
	}
	if _, err := c.readFile(trimmed); err != nil {
		return fmt.Errorf("cannot read %s", trimmed)
	}
	return nil
}
