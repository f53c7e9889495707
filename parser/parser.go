package parser

import (
	"github.com/xiaobogaga/shardsql/lexer"
)

// Parser is a cursor over the tokens of one sql. It always ends with an END token and never moves
// past it. Every `?` the cursor moves over is counted, so placeholders keep their ordinals even
// when they sit in a skipped group.
type Parser struct {
	sql             string
	l               *lexer.Lexer
	pos             int
	parametersIndex int
}

// NewParser lexes sql. Lexical errors are returned as is.
func NewParser(sql string) (*Parser, error) {
	return newParser(sql, lexer.NewLexer())
}

func newParser(sql string, l *lexer.Lexer) (*Parser, error) {
	err := l.Lex([]byte(sql))
	if err != nil {
		return nil, err
	}
	return &Parser{sql: sql, l: l}, nil
}

func (parser *Parser) SQL() string {
	return parser.sql
}

func (parser *Parser) Lexer() *lexer.Lexer {
	return parser.l
}

func (parser *Parser) CurrentToken() lexer.Token {
	return parser.l.Tokens[parser.pos]
}

// PeekToken returns the token after the current one, END when there is none.
func (parser *Parser) PeekToken() lexer.Token {
	if parser.pos+1 >= len(parser.l.Tokens) {
		return parser.l.Tokens[len(parser.l.Tokens)-1]
	}
	return parser.l.Tokens[parser.pos+1]
}

// PreviousEndPos is the end offset of the last token the cursor moved over, 0 at the beginning.
func (parser *Parser) PreviousEndPos() int {
	if parser.pos == 0 {
		return 0
	}
	return parser.l.Tokens[parser.pos-1].EndPos
}

func (parser *Parser) NextToken() {
	token := parser.CurrentToken()
	if token.Tp == lexer.END {
		return
	}
	if token.Tp == lexer.QUESTION {
		parser.parametersIndex++
	}
	parser.pos++
}

// ParametersIndex is the ordinal the next `?` will get.
func (parser *Parser) ParametersIndex() int {
	return parser.parametersIndex
}

func (parser *Parser) EqualAny(tps ...lexer.TokenType) bool {
	current := parser.CurrentToken().Tp
	for _, tp := range tps {
		if current == tp {
			return true
		}
	}
	return false
}

// SkipIfEqual moves past the current token when it is one of tps.
func (parser *Parser) SkipIfEqual(tps ...lexer.TokenType) bool {
	if parser.EqualAny(tps...) {
		parser.NextToken()
		return true
	}
	return false
}

// Accept moves past the current token, which must be tp.
func (parser *Parser) Accept(tp lexer.TokenType) error {
	if !parser.EqualAny(tp) {
		return NewErrSyntax(parser.CurrentToken(), tp)
	}
	parser.NextToken()
	return nil
}

// SkipUntil moves forward until the current token is one of tps or END.
func (parser *Parser) SkipUntil(tps ...lexer.TokenType) {
	for !parser.EqualAny(tps...) && !parser.EqualAny(lexer.END) {
		parser.NextToken()
	}
}

// SkipParentheses skips a balanced ( ... ) group when the current token is `(` and returns the
// skipped text, "" when the current token is not `(`.
func (parser *Parser) SkipParentheses() (string, error) {
	if !parser.EqualAny(lexer.LEFTBRACKET) {
		return "", nil
	}
	begin := parser.CurrentToken().StartPos
	depth := 0
	for {
		switch parser.CurrentToken().Tp {
		case lexer.LEFTBRACKET:
			depth++
		case lexer.RIGHTBRACKET:
			depth--
		case lexer.END:
			return "", NewErrSyntax(parser.CurrentToken(), lexer.RIGHTBRACKET)
		}
		parser.NextToken()
		if depth == 0 {
			return parser.sql[begin:parser.PreviousEndPos()], nil
		}
	}
}

// isIdentifier reports whether token can name a table or a column. Keywords are accepted as
// column names.
func isIdentifier(token lexer.Token, allowKeyword bool) bool {
	return token.Tp == lexer.IDENT || token.Tp == lexer.WORD || (allowKeyword && token.Tp.IsKeyword())
}
