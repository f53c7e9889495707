package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xiaobogaga/shardsql/lexer"
)

type Code string

const (
	// ErrSyntax is any grammar failure not covered by the codes below.
	ErrSyntax Code = "ErrSyntax"
	// ErrUnsupportedFeature is a subquery sourced insert, a multi row insert or a non insert statement.
	ErrUnsupportedFeature Code = "ErrUnsupportedFeature"
	// ErrUnsupportedKeyword is a dialect clause known to be unsupported, like oracle INSERT ALL.
	ErrUnsupportedKeyword Code = "ErrUnsupportedKeyword"
	// ErrMalformedGeneratedKey means the generated key value is neither a placeholder nor a number.
	ErrMalformedGeneratedKey Code = "ErrMalformedGeneratedKey"
	// ErrInsertValueCountMismatch means the column list and the value tuple differ in length.
	ErrInsertValueCountMismatch Code = "ErrInsertValueCountMismatch"
)

// ParseError is returned for every failure detected by the parser. Pos is the byte offset of the
// offending token in the sql.
type ParseError struct {
	Code    Code
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return e.Message
}

// Is matches any ParseError with the same code, so errors.Is(err, &ParseError{Code: ErrSyntax})
// works through wrapping.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}

// Is reports whether err, or an error it wraps, is a ParseError with the given code.
func Is(err error, code Code) bool {
	return errors.Is(err, &ParseError{Code: code})
}

func newError(code Code, pos int, msg string) *ParseError {
	return &ParseError{Code: code, Message: msg, Pos: pos}
}

func tokenDesc(token lexer.Token) string {
	if token.Tp == lexer.END {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", token.Literals)
}

func NewErrSyntax(token lexer.Token, expected ...lexer.TokenType) error {
	if len(expected) == 0 {
		return newError(ErrSyntax, token.StartPos, fmt.Sprintf("[%d] syntax error near %s", token.StartPos, tokenDesc(token)))
	}
	names := make([]string, 0, len(expected))
	for _, tp := range expected {
		names = append(names, tp.String())
	}
	return newError(ErrSyntax, token.StartPos, fmt.Sprintf("[%d] syntax error near %s, expect %s",
		token.StartPos, tokenDesc(token), strings.Join(names, " or ")))
}

func NewErrSyntaxf(pos int, format string, a ...interface{}) error {
	return newError(ErrSyntax, pos, fmt.Sprintf("[%d] ", pos)+fmt.Sprintf(format, a...))
}

func NewErrUnsupportedFeature(pos int, thing string) error {
	return newError(ErrUnsupportedFeature, pos, fmt.Sprintf("[%d] %s is not supported", pos, thing))
}

func NewErrUnsupportedKeyword(token lexer.Token) error {
	return newError(ErrUnsupportedKeyword, token.StartPos, fmt.Sprintf("[%d] unsupported keyword %s", token.StartPos, token.Tp))
}

func NewErrMalformedGeneratedKey(pos int, column string, value string) error {
	return newError(ErrMalformedGeneratedKey, pos,
		fmt.Sprintf("[%d] generated key column '%s' must be a placeholder or a number, got %s", pos, column, value))
}

func NewErrInsertValueCountMismatch(pos int, columns int, values int) error {
	return newError(ErrInsertValueCountMismatch, pos,
		fmt.Sprintf("[%d] mismatch in the count of values (%d) and target columns (%d)", pos, values, columns))
}
