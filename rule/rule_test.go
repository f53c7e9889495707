package rule

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/shardsql/ast"
)

const testRule = `
defaultDatabaseShardingColumns: [user_id]
tables:
  - logicTable: t_order
    actualTables: [t_order_0, t_order_1]
    tableShardingColumns: [order_id]
    generateKeyColumn: order_id
  - logicTable: "` + "`t_item`" + `"
    databaseShardingColumns: [item_id]
`

func TestParse(t *testing.T) {
	rule, err := Parse([]byte(testRule))
	require.Nil(t, err)
	column, ok := rule.GenerateKeyColumn("T_ORDER")
	assert.True(t, ok)
	assert.Equal(t, "order_id", column)
	_, ok = rule.GenerateKeyColumn("t_item")
	assert.False(t, ok)
	_, ok = rule.GenerateKeyColumn("t_unknown")
	assert.False(t, ok)

	tableRule, ok := rule.TableRule("`t_order`")
	require.True(t, ok)
	assert.Equal(t, []string{"t_order_0", "t_order_1"}, tableRule.ActualTables)

	logicTables := rule.LogicTables()
	sort.Strings(logicTables)
	assert.Equal(t, []string{"t_item", "t_order"}, logicTables)
}

func TestIsShardingColumn(t *testing.T) {
	rule, err := Parse([]byte(testRule))
	require.Nil(t, err)
	assert.True(t, rule.IsShardingColumn(ast.NewColumn("ORDER_ID", "t_order")))
	assert.True(t, rule.IsShardingColumn(ast.NewColumn("item_id", "t_item")))
	// default columns apply to every table.
	assert.True(t, rule.IsShardingColumn(ast.NewColumn("user_id", "t_other")))
	assert.False(t, rule.IsShardingColumn(ast.NewColumn("order_id", "t_item")))
	assert.False(t, rule.IsShardingColumn(ast.NewColumn("name", "t_order")))
}

func TestNewShardingRuleErrors(t *testing.T) {
	_, err := NewShardingRule(Config{Tables: []TableConfig{{LogicTable: " "}}})
	assert.Equal(t, ErrEmptyLogicTable, errors.Cause(err))
	_, err = NewShardingRule(Config{Tables: []TableConfig{{LogicTable: "t"}, {LogicTable: "T"}}})
	assert.Equal(t, ErrDuplicateLogicTable, errors.Cause(err))
	_, err = Parse([]byte("tables: ["))
	assert.NotNil(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.yaml")
	require.Nil(t, os.WriteFile(path, []byte(testRule), 0644))
	rule, err := Load(path)
	require.Nil(t, err)
	_, ok := rule.GenerateKeyColumn("t_order")
	assert.True(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
