package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-parsejson/pkg/apispec"
	"github.com/goliatone/go-parsejson/pkg/config"
	"github.com/goliatone/go-parsejson/pkg/jsonparse"
	"github.com/goliatone/go-parsejson/pkg/logging"
	"github.com/goliatone/go-parsejson/pkg/submit"
	"github.com/goliatone/go-parsejson/pkg/tui"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (optional)")
	serverURL := flag.String("server", "", "parse service origin (overrides configuration)")
	data := flag.String("data", "", "JSON text to submit as jsonData")
	file := flag.String("file", "", "file to submit as jsonFile")
	mode := flag.String("mode", "", "result rendering: compact or pretty")
	interactive := flag.Bool("interactive", false, "collect documents with terminal prompts")
	discover := flag.Bool("discover", false, "resolve the parse endpoint from the published OpenAPI document")
	validatePath := flag.String("validate", "", "check a JSON file locally without a server (- reads stdin)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if strings.TrimSpace(*serverURL) != "" {
		cfg.ServerURL = *serverURL
	}
	if strings.TrimSpace(*mode) != "" {
		cfg.RenderMode = *mode
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *validatePath != "" {
		os.Exit(validate(*validatePath, os.Stdin, os.Stdout, cfg.MaxDepth))
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &http.Client{Timeout: cfg.Timeout}
	opts := []submit.Option{
		submit.WithHTTPClient(client),
		submit.WithBaseURL(cfg.ServerURL),
		submit.WithLogger(logger),
	}
	if *discover {
		doc, err := apispec.Fetch(ctx, client, cfg.ServerURL, cfg.Timeout)
		if err != nil {
			log.Fatalf("Failed to fetch API document: %v", err)
		}
		op, err := apispec.ResolveOperation(doc, apispec.ParseOperationID)
		if err != nil {
			log.Fatalf("Failed to resolve parse operation: %v", err)
		}
		logger.Debug("discovered endpoint", zap.String("method", op.Method), zap.String("path", op.Path))
		opts = append(opts, submit.WithEndpoint(op.Path))
	}

	display := submit.NewTerminalDisplay(os.Stdout)

	if *interactive {
		if err := runInteractive(ctx, display, cfg.Mode(), opts); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	form, err := buildForm(*data, *file)
	if err != nil {
		log.Fatalf("%v", err)
	}
	h, err := submit.New(display, append(opts, submit.WithMode(cfg.Mode()))...)
	if err != nil {
		log.Fatalf("Failed to build submitter: %v", err)
	}
	outcome, err := h.Handle(ctx, submit.NewSubmitEvent(form))
	if err != nil {
		log.Fatalf("Failed to submit: %v", err)
	}
	if !outcome.OK() {
		os.Exit(1)
	}
}

func buildForm(data, file string) (*submit.Form, error) {
	form := submit.NewForm(submit.DefaultFormID)
	if data != "" {
		form.Set(submit.Text(submit.FieldJSONData, data))
	}
	if path := strings.TrimSpace(file); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		form.Set(submit.File(submit.FieldJSONFile, filepath.Base(path), content))
	}
	if data == "" && strings.TrimSpace(file) == "" {
		return nil, errors.New("one of -data, -file, -validate or -interactive is required")
	}
	return form, nil
}

// validate parses the document at path (stdin for "-") and prints
// "Valid JSON" or "Invalid JSON: <reason>". It returns the exit code.
func validate(path string, stdin io.Reader, out io.Writer, maxDepth int) int {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(strings.TrimSpace(path))
	}
	if err != nil {
		_, _ = fmt.Fprintf(out, "Invalid JSON: %v\n", err)
		return 1
	}

	if _, err := jsonparse.Parse(string(content), jsonparse.WithMaxDepth(maxDepth)); err != nil {
		_, _ = fmt.Fprintf(out, "Invalid JSON: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "Valid JSON")
	return 0
}

func summary(outcome submit.Outcome) string {
	switch outcome.Kind {
	case submit.OutcomeOK:
		return "Parsed (request " + outcome.RequestID + ")"
	case submit.OutcomeAppError:
		return "Rejected by the server: " + outcome.Message
	default:
		return "Submission failed, see the log for details"
	}
}

func runInteractive(ctx context.Context, display submit.Display, mode submit.Mode, opts []submit.Option) error {
	collector := tui.New()
	for {
		answers, err := collector.Collect(ctx, mode)
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		mode = answers.Mode

		h, err := submit.New(display, append(opts, submit.WithMode(answers.Mode))...)
		if err != nil {
			return err
		}
		outcome, err := h.Handle(ctx, submit.NewSubmitEvent(answers.Form))
		if err != nil {
			return err
		}
		if err := collector.Info(ctx, summary(outcome)); err != nil {
			return err
		}

		again, err := collector.Again(ctx)
		if errors.Is(err, tui.ErrAborted) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
