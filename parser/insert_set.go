package parser

import (
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
	"github.com/xiaobogaga/shardsql/util"
)

// Mysql also accepts an insert like:
// * insert into tb_name set col_name = expr [, col_name = expr...] [on duplicate key update ...]
// Every assignment becomes a column and a condition, and the generated key column yields the
// generated key, as a VALUES insert does. There is no column list to splice into, so no rewrite
// token is produced for a missing generated key.
func parseInsertSet(parser *Parser, rule ShardingRule, stm *ast.InsertStatement) error {
	tableName := stm.TableName()
	generateKeyColumn, hasGenerateKey := rule.GenerateKeyColumn(tableName)
	err := parser.Accept(lexer.SET)
	if err != nil {
		return err
	}
	for {
		token := parser.CurrentToken()
		if !isIdentifier(token, true) {
			return NewErrSyntax(token, lexer.WORD)
		}
		parser.NextToken()
		if parser.SkipIfEqual(lexer.DOT) {
			token = parser.CurrentToken()
			if !isIdentifier(token, true) {
				return NewErrSyntax(token, lexer.WORD)
			}
			parser.NextToken()
		}
		column := ast.NewColumn(token.Literals, tableName)
		err = parser.Accept(lexer.EQUAL)
		if err != nil {
			return err
		}
		valuePos := parser.CurrentToken().StartPos
		expr, err := parser.ParseExpression()
		if err != nil {
			return err
		}
		stm.AddColumn(column)
		stm.Conditions.Add(newCondition(rule, column, expr))
		if hasGenerateKey && stm.GeneratedKey == nil && util.EqualIdentifier(column.Name, generateKeyColumn) {
			stm.GeneratedKey, err = createGeneratedKey(column.Name, expr, valuePos)
			if err != nil {
				return err
			}
		}
		if !parser.SkipIfEqual(lexer.COMMA) {
			return nil
		}
	}
}
