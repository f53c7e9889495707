package parser

import (
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
	"github.com/xiaobogaga/shardsql/util"
)

// ShardingRule is what the insert parser needs to know about the sharding configuration.
type ShardingRule interface {
	// GenerateKeyColumn returns the generated key column of logicTable, if it has one.
	GenerateKeyColumn(logicTable string) (string, bool)
	IsShardingColumn(column ast.Column) bool
}

// Insert statement is like:
// * insert ... into tb_name [( col_name... )] values (expression...)
// InsertParser holds no per statement state and can be shared by concurrent parses.
type InsertParser struct {
	rule    ShardingRule
	dialect Dialect
}

// NewInsertParser creates an insert parser. A nil rule means no table is sharded.
func NewInsertParser(rule ShardingRule, dialect Dialect) *InsertParser {
	if rule == nil {
		rule = noShardingRule{}
	}
	return &InsertParser{rule: rule, dialect: dialect}
}

type noShardingRule struct{}

func (noShardingRule) GenerateKeyColumn(string) (string, bool) { return "", false }
func (noShardingRule) IsShardingColumn(ast.Column) bool        { return false }

func (insertParser *InsertParser) Dialect() Dialect {
	return insertParser.dialect
}

// insertParse is the state of one Parse call.
type insertParse struct {
	*InsertParser
	parser *Parser
	stm    *ast.InsertStatement
	// Position of the generated key column in the column list, -1 when absent.
	generateKeyColumnIndex int
}

// Parse parses the insert statement the cursor is positioned on. No statement is returned when
// an error happens.
func (insertParser *InsertParser) Parse(parser *Parser) (*ast.InsertStatement, error) {
	p := &insertParse{
		InsertParser:           insertParser,
		parser:                 parser,
		stm:                    ast.NewInsertStatement(),
		generateKeyColumnIndex: -1,
	}
	err := p.parse()
	if err != nil {
		return nil, err
	}
	return p.stm, nil
}

func (p *insertParse) parse() error {
	err := p.parser.Accept(lexer.INSERT)
	if err != nil {
		return err
	}
	err = p.parseInto()
	if err != nil {
		return err
	}
	err = p.parseColumns()
	if err != nil {
		return err
	}
	if p.parser.EqualAny(lexer.SELECT, lexer.LEFTBRACKET) {
		return NewErrUnsupportedFeature(p.parser.CurrentToken().StartPos, "insert with subquery")
	}
	current := p.parser.CurrentToken().Tp
	switch {
	case p.dialect.valuesKeywords().Contains(current):
		err = p.parseValues()
	case p.dialect.CustomizedInsertKeywords.Contains(current):
		if p.dialect.CustomizedInsert != nil {
			err = p.dialect.CustomizedInsert(p.parser, p.rule, p.stm)
		}
	}
	if err != nil {
		return err
	}
	p.appendGenerateKey()
	return nil
}

func (p *insertParse) parseInto() error {
	if p.dialect.UnsupportedKeywords.Contains(p.parser.CurrentToken().Tp) {
		return NewErrUnsupportedKeyword(p.parser.CurrentToken())
	}
	p.parser.SkipUntil(lexer.INTO)
	err := p.parser.Accept(lexer.INTO)
	if err != nil {
		return err
	}
	err = p.parser.ParseSingleTable(p.stm)
	if err != nil {
		return err
	}
	return p.skipBetweenTableAndValues()
}

// Skip clauses like mysql's PARTITION (p0, p1).
func (p *insertParse) skipBetweenTableAndValues() error {
	skipped := p.dialect.SkippedKeywordsBetweenTableAndValues
	for skipped.Contains(p.parser.CurrentToken().Tp) {
		p.parser.NextToken()
		_, err := p.parser.SkipParentheses()
		if err != nil {
			return err
		}
	}
	return nil
}

// Column list is like:
// * ( [col_name [, col_name...]] )
func (p *insertParse) parseColumns() error {
	if !p.parser.EqualAny(lexer.LEFTBRACKET) {
		return nil
	}
	if p.parser.PeekToken().Tp == lexer.SELECT {
		return NewErrUnsupportedFeature(p.parser.PeekToken().StartPos, "insert with subquery")
	}
	tableName := p.stm.TableName()
	generateKeyColumn, hasGenerateKey := p.rule.GenerateKeyColumn(tableName)
	p.parser.NextToken()
	for !p.parser.EqualAny(lexer.RIGHTBRACKET) {
		column, err := p.parseColumn(tableName)
		if err != nil {
			return err
		}
		if hasGenerateKey && util.EqualIdentifier(column.Name, generateKeyColumn) {
			p.generateKeyColumnIndex = len(p.stm.Columns)
		}
		p.stm.AddColumn(column)
		if !p.parser.SkipIfEqual(lexer.COMMA) {
			break
		}
		if p.parser.EqualAny(lexer.RIGHTBRACKET) {
			return NewErrSyntax(p.parser.CurrentToken(), lexer.WORD)
		}
	}
	if !p.parser.EqualAny(lexer.RIGHTBRACKET) {
		return NewErrSyntax(p.parser.CurrentToken(), lexer.COMMA, lexer.RIGHTBRACKET)
	}
	p.stm.ColumnsListLastPosition = p.parser.CurrentToken().StartPos
	p.parser.NextToken()
	return nil
}

// col_name | owner.col_name, where col_name may be a keyword.
func (p *insertParse) parseColumn(tableName string) (ast.Column, error) {
	token := p.parser.CurrentToken()
	if !isIdentifier(token, true) {
		return ast.Column{}, NewErrSyntax(token, lexer.WORD)
	}
	p.parser.NextToken()
	if !p.parser.SkipIfEqual(lexer.DOT) {
		return ast.NewColumn(token.Literals, tableName), nil
	}
	name := p.parser.CurrentToken()
	if !isIdentifier(name, true) {
		return ast.Column{}, NewErrSyntax(name, lexer.WORD)
	}
	p.parser.NextToken()
	return ast.NewColumn(name.Literals, tableName), nil
}

// Values is like:
// * {values | value} ( [expr [, expr...]] )
// Only one value tuple is supported.
func (p *insertParse) parseValues() error {
	p.parser.NextToken()
	err := p.parser.Accept(lexer.LEFTBRACKET)
	if err != nil {
		return err
	}
	var values []ast.SQLExpression
	for !p.parser.EqualAny(lexer.RIGHTBRACKET) {
		expr, err := p.parser.ParseExpression()
		if err != nil {
			return err
		}
		values = append(values, expr)
		if !p.parser.SkipIfEqual(lexer.COMMA) {
			break
		}
		if p.parser.EqualAny(lexer.RIGHTBRACKET) {
			return NewErrSyntax(p.parser.CurrentToken())
		}
	}
	p.stm.ValuesListLastPosition = p.parser.CurrentToken().StartPos
	if p.stm.ColumnsListLastPosition >= 0 && len(values) != len(p.stm.Columns) {
		return NewErrInsertValueCountMismatch(p.stm.ValuesListLastPosition, len(p.stm.Columns), len(values))
	}
	for i, column := range p.stm.Columns {
		p.stm.Conditions.Add(newCondition(p.rule, column, values[i]))
		if i != p.generateKeyColumnIndex {
			continue
		}
		p.stm.GeneratedKey, err = createGeneratedKey(column.Name, values[i], p.stm.ValuesListLastPosition)
		if err != nil {
			return err
		}
	}
	err = p.parser.Accept(lexer.RIGHTBRACKET)
	if err != nil {
		return err
	}
	if p.parser.EqualAny(lexer.COMMA) {
		return NewErrUnsupportedFeature(p.parser.CurrentToken().StartPos, "multiple rows insert")
	}
	return nil
}

// Statements without the generated key column get it spliced into the column list and the
// value tuple by the rewriter. A position is -1 when the statement has no such list, the
// rewriter decides how to splice then.
func (p *insertParse) appendGenerateKey() {
	generateKeyColumn, ok := p.rule.GenerateKeyColumn(p.stm.TableName())
	if !ok || p.stm.GeneratedKey != nil {
		return
	}
	p.stm.AddSQLToken(&ast.ItemsToken{Position: p.stm.ColumnsListLastPosition, Items: []string{generateKeyColumn}})
	p.stm.AddSQLToken(&ast.GeneratedKeyToken{Position: p.stm.ValuesListLastPosition})
}

func newCondition(rule ShardingRule, column ast.Column, expr ast.SQLExpression) ast.Condition {
	return ast.Condition{
		Column:         column,
		Operator:       "=",
		Expression:     expr,
		ShardingColumn: rule.IsShardingColumn(column),
	}
}

// A generated key value must be known statically: a number, or a placeholder bound later.
func createGeneratedKey(column string, expr ast.SQLExpression, pos int) (*ast.GeneratedKey, error) {
	switch e := expr.(type) {
	case ast.PlaceholderExpression:
		return &ast.GeneratedKey{Column: column, Index: e.Index}, nil
	case ast.NumberExpression:
		n := e.Number
		return &ast.GeneratedKey{Column: column, Index: -1, Value: &n}, nil
	default:
		return nil, NewErrMalformedGeneratedKey(pos, column, ast.ExpressionString(expr))
	}
}
