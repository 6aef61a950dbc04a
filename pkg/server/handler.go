package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-parsejson/pkg/jsonparse"
)

// Messages returned for input problems that happen before parsing.
const (
	MsgMissingInput   = "missing jsonData or jsonFile"
	MsgInvalidBody    = "invalid form body"
	MsgBodyTooLarge   = "request body too large"
	MsgInvalidUTF8    = "jsonFile is not valid UTF-8"
	MsgUnreadableFile = "jsonFile could not be read"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func badRequest(msg string) error {
	return StatusError{Code: http.StatusBadRequest, Err: errors.New(msg)}
}

type resultResponse struct {
	Result any `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ParseHandler builds the POST /parse-json handler.
func ParseHandler(fns ...OptionFn) http.Handler {
	return ParseHandlerWithOptions(NewOptions(fns...))
}

// ParseHandlerWithOptions builds the parse handler from a pre-constructed
// Options value.
func ParseHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		logger := LoggerFromContext(r.Context(), opts.Logger)

		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
		input, source, err := readInput(r, opts)
		if err != nil {
			logger.Debug("rejected parse input", zap.Error(err))
			writeError(w, err)
			return
		}

		value, err := jsonparse.Parse(input, jsonparse.WithMaxDepth(opts.MaxDepth))
		if err != nil {
			logger.Debug("parse failed", zap.String("source", source), zap.Error(err))
			writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}

		logger.Debug("parsed document", zap.String("source", source), zap.Int("bytes", len(input)))
		writeJSON(w, http.StatusOK, resultResponse{Result: value})
	})
}

// readInput returns the document text and which field it came from. A
// non-blank text field wins over an upload; a blank text field is only used
// when no file was sent, so the parser reports it as empty input.
func readInput(r *http.Request, opts Options) (string, string, error) {
	if err := parseBody(r, opts.MaxBodyBytes); err != nil {
		return "", "", err
	}

	text, hasText := formValue(r, opts.DataField)
	if hasText && strings.TrimSpace(text) != "" {
		return text, opts.DataField, nil
	}

	content, hasFile, err := fileValue(r, opts.FileField)
	if err != nil {
		return "", "", err
	}
	if hasFile {
		return content, opts.FileField, nil
	}
	if hasText {
		return text, opts.DataField, nil
	}
	return "", "", badRequest(MsgMissingInput)
}

func parseBody(r *http.Request, limit int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(limit)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return StatusError{Code: http.StatusRequestEntityTooLarge, Err: errors.New(MsgBodyTooLarge)}
	}
	return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("%s: %w", MsgInvalidBody, err)}
}

func formValue(r *http.Request, name string) (string, bool) {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// fileValue reads the first upload under name. Uploads with neither a
// filename nor content count as absent, matching what browsers send for an
// untouched file input.
func fileValue(r *http.Request, name string) (string, bool, error) {
	if r.MultipartForm == nil {
		return "", false, nil
	}
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 {
		return "", false, nil
	}
	header := headers[0]
	if header.Filename == "" && header.Size == 0 {
		return "", false, nil
	}

	file, err := header.Open()
	if err != nil {
		return "", false, badRequest(MsgUnreadableFile)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", false, badRequest(MsgUnreadableFile)
	}
	if !utf8.Valid(data) {
		return "", false, badRequest(MsgInvalidUTF8)
	}
	return string(data), true, nil
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	writeJSON(w, code, errorResponse{Error: errorMessage(err)})
}

// errorMessage prefers the parser's own message so clients see
// "Expected ':' at offset 5" rather than a wrapped chain.
func errorMessage(err error) string {
	var syntaxErr *jsonparse.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
