package parser

import (
	"fmt"
	"strings"

	"github.com/adi-family/lib-typespec-api/internal/lexer"
)

// ErrorKind categorizes a ParseError, matching the three parser error kinds
// named by the error-handling design: unexpected token, unexpected EOF, and
// invalid syntax.
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrUnexpectedEOF
	ErrInvalidSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnexpectedEOF:
		return "unexpected end of file"
	case ErrInvalidSyntax:
		return "invalid syntax"
	default:
		return "parse error"
	}
}

// ParseError reports a failure to parse a file, with a Rust/Clang-style
// source snippet pointing at the offending token. Parsing aborts the
// current file on the first ParseError rather than attempting recovery.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Span    lexer.SourceSpan
	Input   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Message, e.snippet())
}

func (e *ParseError) snippet() string {
	line := e.Span.Start.Line
	if e.Input == "" || line == 0 {
		return ""
	}
	lines := strings.Split(e.Input, "\n")
	if line > len(lines) {
		return ""
	}
	content := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", line, e.Span.Start.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", line, content)
	b.WriteString("   | ")
	col := e.Span.Start.Column
	if col > 0 && col <= len(content)+1 {
		b.WriteString(strings.Repeat(" ", col-1) + "^")
	}
	return b.String()
}

func (p *Parser) unexpectedToken(expected string, got lexer.Token) error {
	kind := ErrUnexpectedToken
	if got.Type == lexer.EOF {
		kind = ErrUnexpectedEOF
	}
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf("expected %s, got %s", expected, got.Type),
		Span:    got.Span,
		Input:   p.input,
	}
}

func (p *Parser) invalidSyntax(message string) error {
	return &ParseError{
		Kind:    ErrInvalidSyntax,
		Message: message,
		Span:    p.current().Span,
		Input:   p.input,
	}
}
