package jsonparse

import (
	"encoding/json"
	"strings"
)

// DefaultMaxDepth bounds object/array nesting so hostile input cannot
// exhaust the stack.
const DefaultMaxDepth = 512

// Parser turns the token stream of a Lexer into Go values.
type Parser struct {
	lexer    *Lexer
	current  Token
	depth    int
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parse parses a complete JSON document. Objects decode to *Object, arrays
// to []any, numbers to json.Number, and the remaining literals to string,
// bool and nil.
func Parse(input string, options ...Option) (any, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &SyntaxError{Msg: MsgEmptyInput, Offset: 0}
	}
	p, err := NewParser(NewLexer(input), options...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// NewParser primes the parser with the first token from lexer.
func NewParser(lexer *Lexer, options ...Option) (*Parser, error) {
	p := &Parser{lexer: lexer, maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse reads one value and requires the input to end after it.
func (p *Parser) Parse() (any, error) {
	value, err := p.value()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != TokenEOF {
		return nil, &SyntaxError{Msg: MsgTrailingContent, Offset: p.current.Offset}
	}
	return value, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) value() (any, error) {
	tok := p.current
	switch tok.Kind {
	case TokenLBrace:
		return p.object()
	case TokenLBracket:
		return p.array()
	case TokenString:
		return tok.Value, p.advance()
	case TokenNumber:
		return json.Number(tok.Value), p.advance()
	case TokenTrue:
		return true, p.advance()
	case TokenFalse:
		return false, p.advance()
	case TokenNull:
		return nil, p.advance()
	}
	return nil, &SyntaxError{Msg: MsgInvalidValue, Offset: tok.Offset}
}

func (p *Parser) enter(offset int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return &SyntaxError{Msg: MsgMaxDepth, Offset: offset}
	}
	return nil
}

func (p *Parser) object() (*Object, error) {
	if err := p.enter(p.current.Offset); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	obj := NewObject()
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	if p.current.Kind == TokenRBrace {
		return obj, p.advance()
	}

	for {
		if p.current.Kind != TokenString {
			return nil, &SyntaxError{Msg: MsgExpectedString, Offset: p.current.Offset}
		}
		key := p.current.Value
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.current.Kind != TokenColon {
			return nil, &SyntaxError{Msg: MsgExpectedColon, Offset: p.current.Offset}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		value, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)

		switch p.current.Kind {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRBrace:
			return obj, p.advance()
		default:
			return nil, &SyntaxError{Msg: MsgExpectedObjectEnd, Offset: p.current.Offset}
		}
	}
}

func (p *Parser) array() ([]any, error) {
	if err := p.enter(p.current.Offset); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	arr := []any{}
	if err := p.advance(); err != nil { // '['
		return nil, err
	}
	if p.current.Kind == TokenRBracket {
		return arr, p.advance()
	}

	for {
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)

		switch p.current.Kind {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRBracket:
			return arr, p.advance()
		default:
			return nil, &SyntaxError{Msg: MsgExpectedArrayEnd, Offset: p.current.Offset}
		}
	}
}
