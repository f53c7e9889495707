package ast

import (
	"fmt"
	"strings"
)

// SQLToken is an instruction for the rewriter: splice something into the original sql at
// BeginPosition. BeginPosition is -1 when the statement has no list to splice into, like an
// insert without a column list.
type SQLToken interface {
	BeginPosition() int
	sqlToken()
}

// ItemsToken inserts Items, comma separated, into the column list.
type ItemsToken struct {
	Position int
	Items    []string
}

// GeneratedKeyToken marks where the generated key value goes in the value list.
type GeneratedKeyToken struct {
	Position int
}

func (token *ItemsToken) BeginPosition() int {
	return token.Position
}

func (token *GeneratedKeyToken) BeginPosition() int {
	return token.Position
}

func (*ItemsToken) sqlToken()        {}
func (*GeneratedKeyToken) sqlToken() {}

func (token *ItemsToken) String() string {
	return fmt.Sprintf("ItemsToken{%d, [%s]}", token.Position, strings.Join(token.Items, ", "))
}

func (token *GeneratedKeyToken) String() string {
	return fmt.Sprintf("GeneratedKeyToken{%d}", token.Position)
}
