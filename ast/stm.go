package ast

// Insert statement is like:
// * insert [low_priority | delayed | high_priority] [ignore] into tb_name [partition (p...)]
//   [( col_name... )] {values | value} (expression...)
// * insert into tb_name set col_name = expression [, col_name = expression...]
//
// An InsertStatement is created at the start of one parse, filled by the insert parser and
// returned complete. Nothing mutates it afterwards, callers modify a Clone.
type InsertStatement struct {
	Tables     Tables
	Columns    []Column
	Conditions Conditions
	// nil when the statement does not carry a value for the generated key column.
	GeneratedKey *GeneratedKey
	// Offset of the closing parenthesis of the column list, -1 when there is no column list.
	ColumnsListLastPosition int
	// Offset of the closing parenthesis of the value tuple, -1 when there is no value tuple.
	ValuesListLastPosition int
	SQLTokens              []SQLToken
}

func NewInsertStatement() *InsertStatement {
	return &InsertStatement{
		ColumnsListLastPosition: -1,
		ValuesListLastPosition:  -1,
	}
}

// AddSQLToken appends a rewrite token. Tokens are never removed or reordered.
func (stm *InsertStatement) AddSQLToken(token SQLToken) {
	stm.SQLTokens = append(stm.SQLTokens, token)
}

func (stm *InsertStatement) AddColumn(column Column) {
	stm.Columns = append(stm.Columns, column)
}

// TableName returns the name of the insert target, "" when no table was resolved.
func (stm *InsertStatement) TableName() string {
	return stm.Tables.SingleTableName()
}

// Clone copies the statement so that the copy can be modified without affecting stm.
func (stm *InsertStatement) Clone() *InsertStatement {
	ret := *stm
	ret.Tables = Tables{tables: append([]Table(nil), stm.Tables.tables...)}
	ret.Columns = append([]Column(nil), stm.Columns...)
	ret.Conditions = Conditions{conditions: append([]Condition(nil), stm.Conditions.conditions...)}
	if stm.GeneratedKey != nil {
		key := *stm.GeneratedKey
		if key.Value != nil {
			value := *key.Value
			key.Value = &value
		}
		ret.GeneratedKey = &key
	}
	ret.SQLTokens = nil
	for _, token := range stm.SQLTokens {
		switch t := token.(type) {
		case *ItemsToken:
			ret.SQLTokens = append(ret.SQLTokens, &ItemsToken{Position: t.Position, Items: append([]string(nil), t.Items...)})
		case *GeneratedKeyToken:
			ret.SQLTokens = append(ret.SQLTokens, &GeneratedKeyToken{Position: t.Position})
		}
	}
	return &ret
}
