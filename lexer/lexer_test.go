package lexer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOneSql(t *testing.T, sql string) *Lexer {
	lexer := NewLexer()
	err := lexer.Lex([]byte(sql))
	assert.Nil(t, err, sql)
	return lexer
}

func testOneSqlButErr(t *testing.T, sql string, expected LexicalError) {
	lexer := NewLexer()
	err := lexer.Lex([]byte(sql))
	assert.NotNil(t, err, sql)
	assert.Equal(t, expected, errors.Cause(err), sql)
}

func tokenTypes(lexer *Lexer) []TokenType {
	ret := make([]TokenType, 0, len(lexer.Tokens))
	for _, token := range lexer.Tokens {
		ret = append(ret, token.Tp)
	}
	return ret
}

func TestInsert(t *testing.T) {
	sqls := []string{
		" 	insert 	into `tb` values(10, \"hello\", 10.05);",
		" 	insert 	into `tb` values	( 10, 	 \"hello\", 10.05	 ) 	;",
		" 	insert 	into tn(name, first) values( 'a', 10+20, \"hello\", 10.05*1);",
		"INSERT INTO t_order PARTITION (p0) (order_id, user_id) VALUE (?, ?)",
		"insert into t_order set order_id = 1, user_id = ?",
		"insert into [dbo].[t_order] ([id]) values (0x1F)",
	}
	for _, sql := range sqls {
		testOneSql(t, sql)
	}
}

func TestTokenTypes(t *testing.T) {
	lexer := testOneSql(t, "INSERT INTO `t` (id, name) VALUES (?, 'x');")
	assert.Equal(t, []TokenType{
		INSERT, INTO, IDENT, LEFTBRACKET, WORD, COMMA, WORD, RIGHTBRACKET,
		VALUES, LEFTBRACKET, QUESTION, COMMA, CHARS, RIGHTBRACKET, SEMICOLON, END,
	}, tokenTypes(lexer))
}

func TestTokenPositions(t *testing.T) {
	sql := "  insert into `t` (name) values ('it''s')"
	lexer := testOneSql(t, sql)
	for _, token := range lexer.Tokens[:len(lexer.Tokens)-1] {
		if token.Tp == CHARS {
			assert.Equal(t, "'it''s'", sql[token.StartPos:token.EndPos])
			assert.Equal(t, "it's", token.Literals)
			continue
		}
		assert.Equal(t, token.Literals, sql[token.StartPos:token.EndPos])
	}
	assert.Equal(t, 2, lexer.Tokens[0].StartPos)
	assert.Equal(t, "`t`", lexer.Tokens[2].Literals)
	end := lexer.Tokens[len(lexer.Tokens)-1]
	assert.Equal(t, END, end.Tp)
	assert.Equal(t, len(sql), end.StartPos)
}

func TestNumbers(t *testing.T) {
	lexer := testOneSql(t, "10 10.05 1e10 2.5E-3 0x1f 7")
	assert.Equal(t, []TokenType{INT, FLOAT, FLOAT, FLOAT, HEX, INT, END}, tokenTypes(lexer))
	assert.Equal(t, "2.5E-3", lexer.Tokens[3].Literals)
	assert.Equal(t, "0x1f", lexer.Tokens[4].Literals)
}

func TestOperators(t *testing.T) {
	lexer := testOneSql(t, "= == != <> > >= < <= + - * / % || | & ^ . ?")
	assert.Equal(t, []TokenType{
		EQUAL, EQUAL, NOTEQUAL, NOTEQUAL, GREAT, GREATEQUAL, LESS, LESSEQUAL,
		PLUS, MINUS, STAR, DIVIDE, MOD, CONCAT, BITOR, BITAND, CARET, DOT, QUESTION, END,
	}, tokenTypes(lexer))
}

func TestComments(t *testing.T) {
	lexer := testOneSql(t, "insert /* hint */ into -- trailing\n t # mysql comment\n values")
	assert.Equal(t, []TokenType{INSERT, INTO, WORD, VALUES, END}, tokenTypes(lexer))
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	lexer := testOneSql(t, "Insert iNTo ValueS Value low_priority")
	assert.Equal(t, []TokenType{INSERT, INTO, VALUES, VALUE, LOW_PRIORITY, END}, tokenTypes(lexer))
	for _, tp := range []TokenType{INSERT, INTO, VALUES, VALUE, LOW_PRIORITY} {
		assert.True(t, tp.IsKeyword(), tp.String())
	}
	assert.False(t, WORD.IsKeyword())
	assert.False(t, END.IsKeyword())
}

func TestLexErrors(t *testing.T) {
	testOneSqlButErr(t, "insert into t values ('abc", StringUnExpectedEndErr)
	testOneSqlButErr(t, "insert into `t values", IdentUnExpectedEndErr)
	testOneSqlButErr(t, "insert /* into", CommentUnExpectedEndErr)
	testOneSqlButErr(t, "insert into t values (0x)", NumberFormatErr)
	testOneSqlButErr(t, "insert into t values (@a)", UnknownTokenErr)
	testOneSqlButErr(t, "insert into t values (1 ! 2)", UnknownTokenErr)
}

func TestDoubleQuotedIdent(t *testing.T) {
	sql := `insert into "T" ("id") values ("x")`
	lexer := testOneSql(t, sql)
	assert.Equal(t, CHARS, lexer.Tokens[2].Tp)
	assert.Equal(t, "T", lexer.Tokens[2].Literals)

	lexer = NewLexer()
	lexer.DoubleQuotedIdent = true
	require.Nil(t, lexer.Lex([]byte(sql)))
	assert.Equal(t, []TokenType{INSERT, INTO, IDENT, LEFTBRACKET, IDENT, RIGHTBRACKET, VALUES, LEFTBRACKET, IDENT, RIGHTBRACKET, END}, tokenTypes(lexer))
	assert.Equal(t, `"T"`, lexer.Tokens[2].Literals)
	assert.Equal(t, 12, lexer.Tokens[2].StartPos)
	assert.Equal(t, 15, lexer.Tokens[2].EndPos)
	// single quotes are still texts.
	require.Nil(t, lexer.Lex([]byte("values ('x')")))
	assert.Equal(t, CHARS, lexer.Tokens[2].Tp)

	err := lexer.Lex([]byte(`insert into "T values`))
	assert.Equal(t, IdentUnExpectedEndErr, errors.Cause(err))
}

func TestLexerReuse(t *testing.T) {
	lexer := NewLexer()
	require.Nil(t, lexer.Lex([]byte("insert into a values (1)")))
	require.Nil(t, lexer.Lex([]byte("insert")))
	assert.Equal(t, []TokenType{INSERT, END}, tokenTypes(lexer))
	lexer.Reset()
	assert.Empty(t, lexer.Tokens)
	assert.Nil(t, lexer.Data)
}

func TestLexerString(t *testing.T) {
	lexer := testOneSql(t, "insert ?")
	assert.Equal(t, `{INSERT, "insert", StartPos: 0, EndPos: 6},{QUESTION, "?", StartPos: 7, EndPos: 8},{END, "", StartPos: 8, EndPos: 8}`, lexer.String())
}
