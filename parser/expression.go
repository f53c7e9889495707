package parser

import (
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
)

// For expression, only what routing needs is parsed. An expression is like:
// term (ope term)*
// a term can be:
// * ? | number | -number | 'text' | identifier | owner.identifier | funcName(...) | (...) | NULL...
// A single ?, number, text, identifier or property term becomes its own expression, everything
// else, including any term followed by an operator, becomes an IgnoreExpression.
func (parser *Parser) ParseExpression() (ast.SQLExpression, error) {
	begin := parser.CurrentToken().StartPos
	expr, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	if !parser.skipIfCompositeExpression() {
		return expr, nil
	}
	err = parser.skipRestCompositeExpression()
	if err != nil {
		return nil, err
	}
	return ast.IgnoreExpression{Literals: parser.sql[begin:parser.PreviousEndPos()]}, nil
}

func (parser *Parser) parseExpressionTerm() (ast.SQLExpression, error) {
	token := parser.CurrentToken()
	switch token.Tp {
	case lexer.END, lexer.COMMA, lexer.RIGHTBRACKET, lexer.SEMICOLON:
		return nil, NewErrSyntax(token)
	case lexer.QUESTION:
		index := parser.ParametersIndex()
		parser.NextToken()
		return ast.PlaceholderExpression{Index: index}, nil
	case lexer.INT, lexer.FLOAT, lexer.HEX:
		parser.NextToken()
		return parser.numberTerm(token.StartPos, token.Literals), nil
	case lexer.MINUS:
		parser.NextToken()
		if number := parser.CurrentToken(); number.Tp == lexer.INT || number.Tp == lexer.FLOAT || number.Tp == lexer.HEX {
			parser.NextToken()
			return parser.numberTerm(token.StartPos, "-"+number.Literals), nil
		}
		expr, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		if number, ok := expr.(ast.NumberExpression); ok {
			return ast.NumberExpression{Number: number.Number.Negate()}, nil
		}
		return ast.IgnoreExpression{Literals: parser.sql[token.StartPos:parser.PreviousEndPos()]}, nil
	case lexer.CHARS:
		parser.NextToken()
		return ast.TextExpression{Text: token.Literals}, nil
	case lexer.LEFTBRACKET:
		literals, err := parser.SkipParentheses()
		if err != nil {
			return nil, err
		}
		return ast.IgnoreExpression{Literals: literals}, nil
	case lexer.IDENT, lexer.WORD:
		return parser.parseIdentifierTerm()
	}
	parser.NextToken()
	return ast.IgnoreExpression{Literals: token.Literals}, nil
}

// A number that does not fit a float64, like 1e400, is kept as text only.
func (parser *Parser) numberTerm(begin int, literal string) ast.SQLExpression {
	n, err := ast.ParseNumber(literal)
	if err != nil {
		return ast.IgnoreExpression{Literals: parser.sql[begin:parser.PreviousEndPos()]}
	}
	return ast.NumberExpression{Number: n}
}

// identifier | owner.identifier | funcName(...)
func (parser *Parser) parseIdentifierTerm() (ast.SQLExpression, error) {
	token := parser.CurrentToken()
	parser.NextToken()
	if parser.EqualAny(lexer.LEFTBRACKET) {
		_, err := parser.SkipParentheses()
		if err != nil {
			return nil, err
		}
		return ast.IgnoreExpression{Literals: parser.sql[token.StartPos:parser.PreviousEndPos()]}, nil
	}
	if !parser.SkipIfEqual(lexer.DOT) {
		return ast.NewIdentifierExpression(token.Literals), nil
	}
	property := parser.CurrentToken()
	if !isIdentifier(property, true) && property.Tp != lexer.STAR {
		return nil, NewErrSyntax(property, lexer.WORD)
	}
	parser.NextToken()
	return ast.NewPropertyExpression(token.Literals, property.Literals), nil
}

var compositeOperators = []lexer.TokenType{
	lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.DIVIDE, lexer.MOD,
	lexer.CONCAT, lexer.BITAND, lexer.BITOR, lexer.CARET,
}

func (parser *Parser) skipIfCompositeExpression() bool {
	return parser.SkipIfEqual(compositeOperators...)
}

// Skip until the end of the current value: a `,` or `)` of the enclosing list, the end of the
// statement or a clause following a SET assignment.
func (parser *Parser) skipRestCompositeExpression() error {
	if parser.EqualAny(lexer.END, lexer.COMMA, lexer.RIGHTBRACKET, lexer.SEMICOLON) {
		return NewErrSyntax(parser.CurrentToken())
	}
	for !parser.EqualAny(lexer.END, lexer.COMMA, lexer.RIGHTBRACKET, lexer.SEMICOLON, lexer.ON, lexer.RETURNING) {
		if parser.EqualAny(lexer.LEFTBRACKET) {
			_, err := parser.SkipParentheses()
			if err != nil {
				return err
			}
			continue
		}
		parser.NextToken()
	}
	return nil
}
