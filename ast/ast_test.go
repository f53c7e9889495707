package ast

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInsertStatement(t *testing.T) {
	stm := NewInsertStatement()
	assert.Equal(t, -1, stm.ColumnsListLastPosition)
	assert.Equal(t, -1, stm.ValuesListLastPosition)
	assert.Nil(t, stm.GeneratedKey)
	assert.Equal(t, "", stm.TableName())
	stm.Tables.Add(Table{Name: "t_order", Alias: "o"})
	assert.Equal(t, "t_order", stm.TableName())
	stm.AddSQLToken(&ItemsToken{Position: 10, Items: []string{"id"}})
	stm.AddSQLToken(&GeneratedKeyToken{Position: 20})
	require.Len(t, stm.SQLTokens, 2)
	assert.Equal(t, 10, stm.SQLTokens[0].BeginPosition())
	assert.Equal(t, 20, stm.SQLTokens[1].BeginPosition())
}

func TestInsertStatementClone(t *testing.T) {
	stm := NewInsertStatement()
	stm.Tables.Add(Table{Name: "t_order"})
	stm.AddColumn(NewColumn("order_id", "t_order"))
	stm.Conditions.Add(Condition{Column: NewColumn("order_id", "t_order"), Operator: "=", Expression: NumberExpression{Number: NewIntNumber(1)}})
	value := NewIntNumber(1)
	stm.GeneratedKey = &GeneratedKey{Column: "order_id", Index: -1, Value: &value}
	stm.AddSQLToken(&ItemsToken{Position: 10, Items: []string{"id"}})
	stm.AddSQLToken(&GeneratedKeyToken{Position: 20})

	clone := stm.Clone()
	assert.Equal(t, stm, clone)
	assert.Equal(t, stm.Tables.All(), clone.Tables.All())
	assert.Equal(t, stm.Conditions.All(), clone.Conditions.All())

	clone.Tables.Add(Table{Name: "t_user"})
	clone.AddColumn(NewColumn("user_id", "t_order"))
	clone.Conditions.Add(Condition{Column: NewColumn("user_id", "t_order")})
	clone.GeneratedKey.Value.Integer = 2
	clone.SQLTokens[0].(*ItemsToken).Items[0] = "changed"
	clone.AddSQLToken(&GeneratedKeyToken{Position: 30})
	assert.Equal(t, 1, stm.Tables.Len())
	assert.Len(t, stm.Columns, 1)
	assert.Equal(t, 1, stm.Conditions.Len())
	assert.Equal(t, int64(1), stm.GeneratedKey.Value.Integer)
	assert.Equal(t, []string{"id"}, stm.SQLTokens[0].(*ItemsToken).Items)
	assert.Len(t, stm.SQLTokens, 2)

	empty := NewInsertStatement().Clone()
	assert.Equal(t, NewInsertStatement(), empty)
}

func TestColumn(t *testing.T) {
	col := NewColumn("`Order_ID`", "[t_order]")
	assert.Equal(t, Column{Name: "Order_ID", TableName: "t_order"}, col)
	assert.True(t, col.Equal(Column{Name: "order_id", TableName: "T_ORDER"}))
	assert.False(t, col.Equal(Column{Name: "order_id", TableName: "t_user"}))
	assert.Equal(t, "t_order.Order_ID", col.String())
}

func TestTables(t *testing.T) {
	var tables Tables
	assert.True(t, tables.IsEmpty())
	tables.Add(Table{Name: "t_order", Alias: "o"})
	assert.Equal(t, 1, tables.Len())
	table, ok := tables.Find("O")
	assert.True(t, ok)
	assert.Equal(t, "t_order", table.Name)
	_, ok = tables.Find("t_user")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		literal  string
		expected Number
	}{
		{"42", NewIntNumber(42)},
		{"9223372036854775807", NewIntNumber(9223372036854775807)},
		{"0x1F", NewIntNumber(31)},
		{"10.05", NewFloatNumber(10.05)},
		{"1e3", NewFloatNumber(1000)},
		{"-42", NewIntNumber(-42)},
		{"-9223372036854775808", NewIntNumber(math.MinInt64)},
		{"9223372036854775808", NewFloatNumber(9223372036854775808)},
		{"99999999999999999999", NewFloatNumber(1e20)},
		{"0xFFFFFFFFFFFFFFFF", NewFloatNumber(18446744073709551615)},
		{"-0x8000000000000000", NewIntNumber(math.MinInt64)},
		{"-0x1F", NewIntNumber(-31)},
		{"-1.5", NewFloatNumber(-1.5)},
	}
	for _, testCase := range testCases {
		n, err := ParseNumber(testCase.literal)
		assert.Nil(t, err, testCase.literal)
		assert.Equal(t, testCase.expected, n, testCase.literal)
	}
	_, err := ParseNumber("1e400")
	assert.Equal(t, ErrNumberFormat, errors.Cause(err))
	_, err = ParseNumber("0x1FFFFFFFFFFFFFFFF")
	assert.Equal(t, ErrNumberFormat, errors.Cause(err))
	assert.Equal(t, NewIntNumber(-3), NewIntNumber(3).Negate())
	assert.Equal(t, NewFloatNumber(-1.5), NewFloatNumber(1.5).Negate())
	assert.Equal(t, "42", NewIntNumber(42).String())
	assert.Equal(t, "1.5", NewFloatNumber(1.5).String())
}

func TestConditionValue(t *testing.T) {
	params := []interface{}{int64(7), "x"}
	col := NewColumn("id", "t")
	testCases := []struct {
		expr     SQLExpression
		expected interface{}
		ok       bool
	}{
		{NumberExpression{Number: NewIntNumber(1)}, int64(1), true},
		{TextExpression{Text: "a"}, "a", true},
		{PlaceholderExpression{Index: 1}, "x", true},
		{PlaceholderExpression{Index: 2}, nil, false},
		{IdentifierExpression{Name: "b"}, nil, false},
		{IgnoreExpression{Literals: "now()"}, nil, false},
	}
	for _, testCase := range testCases {
		v, ok := Condition{Column: col, Operator: "=", Expression: testCase.expr}.Value(params)
		assert.Equal(t, testCase.ok, ok)
		assert.Equal(t, testCase.expected, v)
	}
}

func TestConditions(t *testing.T) {
	var conds Conditions
	conds.Add(Condition{Column: NewColumn("id", "t"), Operator: "=", Expression: PlaceholderExpression{Index: 0}, ShardingColumn: true})
	conds.Add(Condition{Column: NewColumn("name", "t"), Operator: "=", Expression: TextExpression{Text: "it's"}})
	assert.Equal(t, 2, conds.Len())
	sharding := conds.ShardingConditions()
	require.Len(t, sharding, 1)
	assert.Equal(t, "id", sharding[0].Column.Name)
	cond, ok := conds.Find(NewColumn("NAME", "t"))
	assert.True(t, ok)
	assert.Equal(t, "t.name = 'it''s'", cond.String())
	_, ok = conds.Find(NewColumn("age", "t"))
	assert.False(t, ok)
}

func TestGeneratedKeyResolve(t *testing.T) {
	n := NewIntNumber(42)
	literal := &GeneratedKey{Column: "id", Index: -1, Value: &n}
	v, ok := literal.Resolve(nil)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
	assert.Equal(t, "id = 42", literal.String())

	placeholder := &GeneratedKey{Column: "id", Index: 1}
	v, ok = placeholder.Resolve([]interface{}{"a", int64(9)})
	assert.True(t, ok)
	assert.Equal(t, int64(9), v)
	_, ok = placeholder.Resolve([]interface{}{"a"})
	assert.False(t, ok)
	assert.Equal(t, "id = ?#1", placeholder.String())
}

func TestSQLTokenString(t *testing.T) {
	assert.Equal(t, "ItemsToken{19, [id]}", (&ItemsToken{Position: 19, Items: []string{"id"}}).String())
	assert.Equal(t, "GeneratedKeyToken{32}", (&GeneratedKeyToken{Position: 32}).String())
}
