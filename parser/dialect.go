package parser

import (
	"sort"
	"strings"

	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
)

type TokenSet map[lexer.TokenType]struct{}

func NewTokenSet(tps ...lexer.TokenType) TokenSet {
	set := make(TokenSet, len(tps))
	for _, tp := range tps {
		set[tp] = struct{}{}
	}
	return set
}

func (set TokenSet) Contains(tp lexer.TokenType) bool {
	_, ok := set[tp]
	return ok
}

// Types returns the members in token order.
func (set TokenSet) Types() []lexer.TokenType {
	ret := make([]lexer.TokenType, 0, len(set))
	for tp := range set {
		ret = append(ret, tp)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// CustomizedInsertFunc parses an insert form other than VALUES. It is called with the cursor on
// one of the dialect's CustomizedInsertKeywords and fills stm.
type CustomizedInsertFunc func(parser *Parser, rule ShardingRule, stm *ast.InsertStatement) error

// Dialect describes how an sql vendor's insert differs from the common form:
// * insert [UnsupportedKeywords...] into tb_name [SkippedKeywordsBetweenTableAndValues [(...)]...] [(col...)]
//   {ValuesKeywords (expr...) | CustomizedInsertKeywords ...}
// The zero value is a valid dialect accepting only VALUES.
type Dialect struct {
	Name                                 string
	UnsupportedKeywords                  TokenSet
	SkippedKeywordsBetweenTableAndValues TokenSet
	// Defaults to VALUES when empty.
	ValuesKeywords           TokenSet
	CustomizedInsertKeywords TokenSet
	// nil does nothing.
	CustomizedInsert CustomizedInsertFunc
	// "..." quotes an identifier rather than a text.
	DoubleQuotedIdentifiers bool
}

// NewParser lexes sql the way this dialect quotes identifiers.
func (dialect Dialect) NewParser(sql string) (*Parser, error) {
	l := lexer.NewLexer()
	l.DoubleQuotedIdent = dialect.DoubleQuotedIdentifiers
	return newParser(sql, l)
}

var defaultValuesKeywords = NewTokenSet(lexer.VALUES)

func (dialect Dialect) valuesKeywords() TokenSet {
	if len(dialect.ValuesKeywords) == 0 {
		return defaultValuesKeywords
	}
	return dialect.ValuesKeywords
}

var (
	MySQL = Dialect{
		Name:                                 "mysql",
		SkippedKeywordsBetweenTableAndValues: NewTokenSet(lexer.PARTITION),
		ValuesKeywords:                       NewTokenSet(lexer.VALUES, lexer.VALUE),
		CustomizedInsertKeywords:             NewTokenSet(lexer.SET),
		CustomizedInsert:                     parseInsertSet,
	}
	H2 = Dialect{
		Name:                                 "h2",
		SkippedKeywordsBetweenTableAndValues: MySQL.SkippedKeywordsBetweenTableAndValues,
		ValuesKeywords:                       MySQL.ValuesKeywords,
		CustomizedInsertKeywords:             MySQL.CustomizedInsertKeywords,
		CustomizedInsert:                     parseInsertSet,
		DoubleQuotedIdentifiers:              true,
	}
	// INSERT ALL and INSERT FIRST write into several tables.
	Oracle = Dialect{
		Name:                    "oracle",
		UnsupportedKeywords:     NewTokenSet(lexer.ALL, lexer.FIRST),
		DoubleQuotedIdentifiers: true,
	}
	SQLServer = Dialect{
		Name:                    "sqlserver",
		UnsupportedKeywords:     NewTokenSet(lexer.TOP),
		DoubleQuotedIdentifiers: true,
	}
	PostgreSQL = Dialect{
		Name:                    "postgresql",
		DoubleQuotedIdentifiers: true,
	}
)

var dialects = map[string]Dialect{
	"mysql":      MySQL,
	"h2":         H2,
	"oracle":     Oracle,
	"sqlserver":  SQLServer,
	"postgresql": PostgreSQL,
}

// LookupDialect finds a built in dialect by name, ignoring case.
func LookupDialect(name string) (Dialect, bool) {
	dialect, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return dialect, ok
}

func DialectNames() []string {
	ret := make([]string, 0, len(dialects))
	for name := range dialects {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
