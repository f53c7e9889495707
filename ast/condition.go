package ast

import (
	"fmt"
	"strings"
)

// Condition is a column = value pair used to pick the shards a statement targets.
type Condition struct {
	Column         Column
	Operator       string
	Expression     SQLExpression
	ShardingColumn bool
}

// Value resolves the routing value of the condition. A placeholder is resolved against the bound
// parameters. ok is false when the value cannot be known before execution.
func (cond Condition) Value(parameters []interface{}) (v interface{}, ok bool) {
	switch expr := cond.Expression.(type) {
	case NumberExpression:
		return expr.Number.Value(), true
	case TextExpression:
		return expr.Text, true
	case PlaceholderExpression:
		if expr.Index < 0 || expr.Index >= len(parameters) {
			return nil, false
		}
		return parameters[expr.Index], true
	}
	return nil, false
}

func (cond Condition) String() string {
	return fmt.Sprintf("%s %s %s", cond.Column, cond.Operator, ExpressionString(cond.Expression))
}

type Conditions struct {
	conditions []Condition
}

func (conds *Conditions) Add(cond Condition) {
	conds.conditions = append(conds.conditions, cond)
}

func (conds *Conditions) Len() int {
	return len(conds.conditions)
}

func (conds *Conditions) All() []Condition {
	return conds.conditions
}

// ShardingConditions returns the conditions on sharding columns, in column order.
func (conds *Conditions) ShardingConditions() []Condition {
	var ret []Condition
	for _, cond := range conds.conditions {
		if cond.ShardingColumn {
			ret = append(ret, cond)
		}
	}
	return ret
}

func (conds *Conditions) Find(column Column) (Condition, bool) {
	for _, cond := range conds.conditions {
		if cond.Column.Equal(column) {
			return cond, true
		}
	}
	return Condition{}, false
}

// GeneratedKey describes the value a statement supplies for the generated key column: either the
// placeholder at Index, or the literal Value. Index is -1 when Value is set.
type GeneratedKey struct {
	Column string
	Index  int
	Value  *Number
}

// Resolve returns the key value, reading the bound parameters when the key is a placeholder.
func (key *GeneratedKey) Resolve(parameters []interface{}) (interface{}, bool) {
	if key.Value != nil {
		return key.Value.Value(), true
	}
	if key.Index < 0 || key.Index >= len(parameters) {
		return nil, false
	}
	return parameters[key.Index], true
}

func (key *GeneratedKey) String() string {
	if key.Value != nil {
		return fmt.Sprintf("%s = %s", key.Column, key.Value)
	}
	return fmt.Sprintf("%s = ?#%d", key.Column, key.Index)
}

func ExpressionString(expr SQLExpression) string {
	switch e := expr.(type) {
	case PlaceholderExpression:
		return fmt.Sprintf("?#%d", e.Index)
	case NumberExpression:
		return e.Number.String()
	case TextExpression:
		return "'" + strings.ReplaceAll(e.Text, "'", "''") + "'"
	case IdentifierExpression:
		return e.Name
	case PropertyExpression:
		return e.Owner + "." + e.Name
	case IgnoreExpression:
		return e.Literals
	}
	return "<nil>"
}
