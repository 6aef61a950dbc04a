package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-parsejson/pkg/jsonparse"
)

// Mode selects how a successful result is rendered.
type Mode string

const (
	// ModeCompact replaces the element text with "Parsed Result: <json>".
	ModeCompact Mode = "compact"
	// ModePretty clears the element and inserts a <pre> block holding the
	// result indented by two spaces.
	ModePretty Mode = "pretty"
)

const (
	ResultPrefix    = "Parsed Result: "
	ErrorPrefix     = "Error: "
	FallbackMessage = "An error occurred. Please try again later."

	// undefinedText is what a missing result renders as.
	undefinedText = "undefined"

	// resultMaxDepth matches the nesting encoding/json accepts, so any body
	// that decoded also re-parses.
	resultMaxDepth = 10000
)

// ParseMode maps a name onto a Mode. Unknown names are rejected.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeCompact:
		return ModeCompact, nil
	case ModePretty:
		return ModePretty, nil
	default:
		return "", fmt.Errorf("submit: unknown render mode %q", raw)
	}
}

// RenderResult writes a successful result into display according to mode.
// It returns the text content written.
func RenderResult(display Display, mode Mode, result []byte) (string, error) {
	switch mode {
	case ModePretty:
		body, err := formatResult(result, "  ")
		if err != nil {
			return "", err
		}
		markup := resultSanitizer().Sanitize("<pre>" + html.EscapeString(body) + "</pre>")
		display.SetHTML(markup)
		return body, nil
	default:
		body, err := formatResult(result, "")
		if err != nil {
			return "", err
		}
		text := ResultPrefix + body
		display.SetText(text)
		return text, nil
	}
}

// RenderAppError shows a server reported error.
func RenderAppError(display Display, message string) string {
	text := ErrorPrefix + message
	display.SetText(text)
	return text
}

// RenderFallback shows the generic failure message.
func RenderFallback(display Display) string {
	display.SetText(FallbackMessage)
	return FallbackMessage
}

// formatResult re-serialises raw JSON keeping key order. A nil result is
// rendered as "undefined".
func formatResult(raw []byte, indent string) (string, error) {
	if raw == nil {
		return undefinedText, nil
	}
	value, err := jsonparse.Parse(string(raw), jsonparse.WithMaxDepth(resultMaxDepth))
	if err != nil {
		return "", fmt.Errorf("submit: reparse result: %w", err)
	}
	value, err = jsonparse.Normalize(value)
	if err != nil {
		return "", fmt.Errorf("submit: normalize result: %w", err)
	}
	out, err := jsonparse.Marshal(value, indent)
	if err != nil {
		return "", fmt.Errorf("submit: format result: %w", err)
	}
	return string(out), nil
}

// errorText converts the "error" member into display text the way string
// concatenation would in a browser: strings verbatim, numbers in their
// shortest form, arrays joined with commas and objects as "[object Object]".
func errorText(raw json.RawMessage) string {
	value, err := jsonparse.Parse(string(raw), jsonparse.WithMaxDepth(resultMaxDepth))
	if err != nil {
		return string(raw)
	}
	return stringify(value)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case json.Number:
		s, err := jsonparse.FormatNumber(t)
		if err != nil {
			return string(t)
		}
		if s == "null" && strings.HasPrefix(string(t), "-") {
			return "-Infinity"
		}
		if s == "null" {
			return "Infinity"
		}
		return s
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if item == nil {
				continue
			}
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// truthy mirrors the loose truthiness test applied to the "error" member:
// absent, null, false, zero and the empty string do not count as an error.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch string(trimmed) {
	case "null", "false", `""`:
		return false
	}
	if trimmed[0] == '"' {
		return true
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		f, err := n.Float64()
		return err != nil || f != 0
	}
	return true
}
