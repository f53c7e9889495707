package rule

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/util"
	"gopkg.in/yaml.v3"
)

// A sharding rule file is like:
//
//	defaultDatabaseShardingColumns: [user_id]
//	tables:
//	  - logicTable: t_order
//	    actualTables: [t_order_0, t_order_1]
//	    tableShardingColumns: [order_id]
//	    generateKeyColumn: order_id
type Config struct {
	DefaultDatabaseShardingColumns []string      `yaml:"defaultDatabaseShardingColumns"`
	DefaultTableShardingColumns    []string      `yaml:"defaultTableShardingColumns"`
	Tables                         []TableConfig `yaml:"tables"`
}

type TableConfig struct {
	LogicTable              string   `yaml:"logicTable"`
	ActualTables            []string `yaml:"actualTables"`
	DatabaseShardingColumns []string `yaml:"databaseShardingColumns"`
	TableShardingColumns    []string `yaml:"tableShardingColumns"`
	GenerateKeyColumn       string   `yaml:"generateKeyColumn"`
}

var (
	ErrEmptyLogicTable     = errors.New("empty logic table name")
	ErrDuplicateLogicTable = errors.New("duplicate logic table")
)

type TableRule struct {
	LogicTable              string
	ActualTables            []string
	DatabaseShardingColumns []string
	TableShardingColumns    []string
	GenerateKeyColumn       string
}

func (tableRule *TableRule) IsShardingColumn(column string) bool {
	return containsIdentifier(tableRule.DatabaseShardingColumns, column) ||
		containsIdentifier(tableRule.TableShardingColumns, column)
}

// ShardingRule maps logic tables to their rules. It is read only once built and safe for
// concurrent use.
type ShardingRule struct {
	tableRules                     map[string]*TableRule
	defaultDatabaseShardingColumns []string
	defaultTableShardingColumns    []string
	lock                           sync.RWMutex
}

func NewShardingRule(config Config) (*ShardingRule, error) {
	rule := &ShardingRule{
		tableRules:                     map[string]*TableRule{},
		defaultDatabaseShardingColumns: exactlyValues(config.DefaultDatabaseShardingColumns),
		defaultTableShardingColumns:    exactlyValues(config.DefaultTableShardingColumns),
	}
	for i, table := range config.Tables {
		name := util.ExactlyValue(strings.TrimSpace(table.LogicTable))
		if name == "" {
			return nil, errors.Wrapf(ErrEmptyLogicTable, "tables[%d]", i)
		}
		key := strings.ToLower(name)
		if _, ok := rule.tableRules[key]; ok {
			return nil, errors.Wrapf(ErrDuplicateLogicTable, "%s", name)
		}
		rule.tableRules[key] = &TableRule{
			LogicTable:              name,
			ActualTables:            exactlyValues(table.ActualTables),
			DatabaseShardingColumns: exactlyValues(table.DatabaseShardingColumns),
			TableShardingColumns:    exactlyValues(table.TableShardingColumns),
			GenerateKeyColumn:       util.ExactlyValue(strings.TrimSpace(table.GenerateKeyColumn)),
		}
	}
	return rule, nil
}

// Parse builds a ShardingRule from a yaml document.
func Parse(data []byte) (*ShardingRule, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse sharding rule")
	}
	return NewShardingRule(config)
}

func Load(path string) (*ShardingRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read sharding rule %s", path)
	}
	rule, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return rule, nil
}

func (rule *ShardingRule) TableRule(logicTable string) (*TableRule, bool) {
	rule.lock.RLock()
	defer rule.lock.RUnlock()
	tableRule, ok := rule.tableRules[strings.ToLower(util.ExactlyValue(logicTable))]
	return tableRule, ok
}

// GenerateKeyColumn returns the generated key column configured for logicTable.
func (rule *ShardingRule) GenerateKeyColumn(logicTable string) (string, bool) {
	tableRule, ok := rule.TableRule(logicTable)
	if !ok || tableRule.GenerateKeyColumn == "" {
		return "", false
	}
	return tableRule.GenerateKeyColumn, true
}

// IsShardingColumn reports whether column decides the database or the table a row goes to.
// Default sharding columns apply to every table.
func (rule *ShardingRule) IsShardingColumn(column ast.Column) bool {
	if containsIdentifier(rule.defaultDatabaseShardingColumns, column.Name) ||
		containsIdentifier(rule.defaultTableShardingColumns, column.Name) {
		return true
	}
	tableRule, ok := rule.TableRule(column.TableName)
	return ok && tableRule.IsShardingColumn(column.Name)
}

// LogicTables returns the configured logic table names.
func (rule *ShardingRule) LogicTables() []string {
	rule.lock.RLock()
	defer rule.lock.RUnlock()
	ret := make([]string, 0, len(rule.tableRules))
	for _, tableRule := range rule.tableRules {
		ret = append(ret, tableRule.LogicTable)
	}
	return ret
}

func containsIdentifier(identifiers []string, identifier string) bool {
	for _, id := range identifiers {
		if util.EqualIdentifier(id, identifier) {
			return true
		}
	}
	return false
}

func exactlyValues(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		v = util.ExactlyValue(strings.TrimSpace(v))
		if v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}
