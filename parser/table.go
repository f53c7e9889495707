package parser

import (
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
	"github.com/xiaobogaga/shardsql/util"
)

// A single table is like:
// * [schema.]tb_name [[as] alias]
// Only a bare word is taken as an alias without AS, so keywords like PARTITION, VALUES or SET
// following the table name are left alone.
func (parser *Parser) ParseSingleTable(stm *ast.InsertStatement) error {
	token := parser.CurrentToken()
	if !isIdentifier(token, false) {
		return NewErrSyntax(token, lexer.WORD)
	}
	parser.NextToken()
	table := ast.Table{Name: util.ExactlyValue(token.Literals)}
	if parser.SkipIfEqual(lexer.DOT) {
		name := parser.CurrentToken()
		if !isIdentifier(name, false) {
			return NewErrSyntax(name, lexer.WORD)
		}
		parser.NextToken()
		table.Schema = table.Name
		table.Name = util.ExactlyValue(name.Literals)
	}
	if parser.SkipIfEqual(lexer.AS) {
		alias := parser.CurrentToken()
		if !isIdentifier(alias, false) {
			return NewErrSyntax(alias, lexer.WORD)
		}
		parser.NextToken()
		table.Alias = util.ExactlyValue(alias.Literals)
	} else if parser.EqualAny(lexer.WORD) {
		table.Alias = parser.CurrentToken().Literals
		parser.NextToken()
	}
	if parser.EqualAny(lexer.COMMA) {
		return NewErrSyntaxf(parser.CurrentToken().StartPos, "only a single table is allowed, %s is followed by another table", table.Name)
	}
	stm.Tables.Add(table)
	return nil
}
