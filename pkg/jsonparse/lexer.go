package jsonparse

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenColon
	TokenComma
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
)

var tokenNames = map[TokenKind]string{
	TokenEOF:      "EOF",
	TokenLBrace:   "LBRACE",
	TokenRBrace:   "RBRACE",
	TokenLBracket: "LBRACKET",
	TokenRBracket: "RBRACKET",
	TokenColon:    "COLON",
	TokenComma:    "COMMA",
	TokenString:   "STRING",
	TokenNumber:   "NUMBER",
	TokenTrue:     "TRUE",
	TokenFalse:    "FALSE",
	TokenNull:     "NULL",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexeme. Value holds the decoded string for TokenString
// and the literal text for TokenNumber; Offset is where the token starts.
type Token struct {
	Kind   TokenKind
	Value  string
	Offset int
}

// Lexer produces tokens on demand from an input string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex tokenises the whole input, including the trailing TokenEOF.
func Lex(input string) ([]Token, error) {
	lx := NewLexer(input)
	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token. Once the input is exhausted it keeps
// returning TokenEOF.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Offset: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]
	switch ch {
	case '{':
		l.pos++
		return Token{Kind: TokenLBrace, Value: "{", Offset: start}, nil
	case '}':
		l.pos++
		return Token{Kind: TokenRBrace, Value: "}", Offset: start}, nil
	case '[':
		l.pos++
		return Token{Kind: TokenLBracket, Value: "[", Offset: start}, nil
	case ']':
		l.pos++
		return Token{Kind: TokenRBracket, Value: "]", Offset: start}, nil
	case ':':
		l.pos++
		return Token{Kind: TokenColon, Value: ":", Offset: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Value: ",", Offset: start}, nil
	case '"':
		return l.lexString()
	}

	if ch == '-' || isDigit(ch) {
		return l.lexNumber()
	}

	for _, kw := range keywords {
		if strings.HasPrefix(l.input[l.pos:], kw.text) {
			l.pos += len(kw.text)
			return Token{Kind: kw.kind, Value: kw.text, Offset: start}, nil
		}
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return Token{}, syntaxErrorf(start, "Invalid character: %c", r)
}

var keywords = []struct {
	text string
	kind TokenKind
}{
	{"true", TokenTrue},
	{"false", TokenFalse},
	{"null", TokenNull},
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) lexString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, &SyntaxError{Msg: MsgUnterminatedString, Offset: start}
		}
		ch := l.input[l.pos]
		switch {
		case ch == '"':
			l.pos++
			return Token{Kind: TokenString, Value: b.String(), Offset: start}, nil
		case ch == '\\':
			if err := l.lexEscape(&b); err != nil {
				return Token{}, err
			}
		case ch < 0x20:
			return Token{}, &SyntaxError{Msg: MsgControlCharacter, Offset: l.pos}
		default:
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			b.WriteRune(r)
			l.pos += size
		}
	}
}

func (l *Lexer) lexEscape(b *strings.Builder) error {
	escStart := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.input) {
		return &SyntaxError{Msg: MsgUnterminatedString, Offset: escStart}
	}
	ch := l.input[l.pos]
	l.pos++
	switch ch {
	case '"', '\\', '/':
		b.WriteByte(ch)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, ok := l.readHex4()
		if !ok {
			return &SyntaxError{Msg: MsgInvalidEscape, Offset: escStart}
		}
		if utf16.IsSurrogate(r) {
			// A high surrogate must be followed by an escaped low surrogate.
			if strings.HasPrefix(l.input[l.pos:], `\u`) {
				save := l.pos
				l.pos += 2
				if low, ok := l.readHex4(); ok {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						b.WriteRune(pair)
						return nil
					}
				}
				l.pos = save
			}
			r = utf8.RuneError
		}
		b.WriteRune(r)
	default:
		return &SyntaxError{Msg: MsgInvalidEscape, Offset: escStart}
	}
	return nil
}

func (l *Lexer) readHex4() (rune, bool) {
	if l.pos+4 > len(l.input) {
		return 0, false
	}
	v, err := strconv.ParseUint(l.input[l.pos:l.pos+4], 16, 32)
	if err != nil {
		return 0, false
	}
	l.pos += 4
	return rune(v), true
}

// lexNumber follows the JSON number grammar:
// -? (0 | [1-9][0-9]*) (.[0-9]+)? ([eE][+-]?[0-9]+)?
func (l *Lexer) lexNumber() (Token, error) {
	start := l.pos
	invalid := func() (Token, error) {
		return Token{}, &SyntaxError{Msg: MsgInvalidNumber, Offset: start}
	}

	if l.peek() == '-' {
		l.pos++
	}
	switch {
	case l.peek() == '0':
		l.pos++
	case isDigit(l.peek()):
		l.digits()
	default:
		return invalid()
	}

	if l.peek() == '.' {
		l.pos++
		if !isDigit(l.peek()) {
			return invalid()
		}
		l.digits()
	}

	if c := l.peek(); c == 'e' || c == 'E' {
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		if !isDigit(l.peek()) {
			return invalid()
		}
		l.digits()
	}

	// "012" or "1a" must not silently split into two tokens.
	if c := l.peek(); isDigit(c) || isIdentByte(c) {
		return invalid()
	}

	return Token{Kind: TokenNumber, Value: l.input[start:l.pos], Offset: start}, nil
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) digits() {
	for isDigit(l.peek()) {
		l.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
