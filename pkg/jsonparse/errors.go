package jsonparse

import (
	"errors"
	"fmt"
)

// Messages reported by the lexer and parser. They double as the user facing
// text returned by the service, so keep them short.
const (
	MsgEmptyInput         = "Empty input"
	MsgInvalidValue       = "Invalid JSON value"
	MsgExpectedColon      = "Expected ':'"
	MsgExpectedObjectEnd  = "Expected ',' or '}'"
	MsgExpectedArrayEnd   = "Expected ',' or ']'"
	MsgExpectedString     = "Expected string"
	MsgUnterminatedString = "Unterminated string"
	MsgInvalidEscape      = "Invalid escape sequence"
	MsgControlCharacter   = "Invalid control character in string"
	MsgInvalidNumber      = "Invalid number"
	MsgTrailingContent    = "Unexpected trailing content"
	MsgMaxDepth           = "Maximum nesting depth exceeded"
)

// ErrSyntax is matched by every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("jsonparse: syntax error")

// SyntaxError describes where and why the input could not be tokenised or
// parsed. Offset is a byte offset into the input.
type SyntaxError struct {
	Msg    string
	Offset int
}

func (e *SyntaxError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

// Is lets callers test for ErrSyntax without a type assertion.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxErrorf(offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}
