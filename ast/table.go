package ast

import (
	"github.com/xiaobogaga/shardsql/util"
)

// Column is identified by its name and the logic table it belongs to.
type Column struct {
	Name      string
	TableName string
}

func NewColumn(name, tableName string) Column {
	return Column{Name: util.ExactlyValue(name), TableName: util.ExactlyValue(tableName)}
}

// Equal compares two columns ignoring case and identifier quoting.
func (col Column) Equal(other Column) bool {
	return util.EqualIdentifier(col.Name, other.Name) && util.EqualIdentifier(col.TableName, other.TableName)
}

func (col Column) String() string {
	return util.BuildDotString(col.TableName, col.Name)
}

type Table struct {
	Name   string
	Alias  string
	Schema string
}

type Tables struct {
	tables []Table
}

func (tables *Tables) Add(table Table) {
	tables.tables = append(tables.tables, table)
}

func (tables *Tables) Len() int {
	return len(tables.tables)
}

func (tables *Tables) All() []Table {
	return tables.tables
}

func (tables *Tables) IsEmpty() bool {
	return len(tables.tables) == 0
}

func (tables *Tables) SingleTableName() string {
	if len(tables.tables) == 0 {
		return ""
	}
	return tables.tables[0].Name
}

// Find looks a table up by name or alias.
func (tables *Tables) Find(name string) (Table, bool) {
	for _, table := range tables.tables {
		if util.EqualIdentifier(table.Name, name) || (table.Alias != "" && util.EqualIdentifier(table.Alias, name)) {
			return table, true
		}
	}
	return Table{}, false
}
