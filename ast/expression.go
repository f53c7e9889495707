package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xiaobogaga/shardsql/util"
)

// SQLExpression is a closed set of value expressions. Only PlaceholderExpression and
// NumberExpression can provide a generated key, all the others are opaque to routing.
type SQLExpression interface {
	sqlExpression()
}

// ?
type PlaceholderExpression struct {
	Index int
}

// 10, -10, 0x1F, 10.05
type NumberExpression struct {
	Number Number
}

// 'text'
type TextExpression struct {
	Text string
}

// col_name
type IdentifierExpression struct {
	Name string
}

// owner.col_name
type PropertyExpression struct {
	Owner string
	Name  string
}

// Anything else: function calls, arithmetic, parenthesised groups, NULL, DEFAULT...
// Literals is the source text the expression was parsed from.
type IgnoreExpression struct {
	Literals string
}

func (PlaceholderExpression) sqlExpression() {}
func (NumberExpression) sqlExpression()      {}
func (TextExpression) sqlExpression()        {}
func (IdentifierExpression) sqlExpression()  {}
func (PropertyExpression) sqlExpression()    {}
func (IgnoreExpression) sqlExpression()      {}

func NewIdentifierExpression(name string) IdentifierExpression {
	return IdentifierExpression{Name: util.ExactlyValue(name)}
}

func NewPropertyExpression(owner, name string) PropertyExpression {
	return PropertyExpression{Owner: util.ExactlyValue(owner), Name: util.ExactlyValue(name)}
}

// Number keeps integers as int64 so 64 bit surrogate keys survive without rounding.
type Number struct {
	Integer int64
	Float   float64
	IsFloat bool
}

func NewIntNumber(v int64) Number {
	return Number{Integer: v}
}

func NewFloatNumber(v float64) Number {
	return Number{Float: v, IsFloat: true}
}

var ErrNumberFormat = errors.New("wrong number format")

// ParseNumber parses an optionally negative decimal integer, hex integer like 0x1F or float like
// 10.05 and 1e10. Integers out of the int64 range become floats.
func ParseNumber(literal string) (Number, error) {
	lower := strings.ToLower(literal)
	digits := strings.TrimPrefix(lower, "-")
	negative := len(digits) != len(lower)
	if strings.HasPrefix(digits, "0x") {
		v, err := strconv.ParseUint(digits[2:], 16, 64)
		if err != nil {
			return Number{}, errors.Wrapf(ErrNumberFormat, "%s: %v", literal, err)
		}
		return signedNumber(v, negative), nil
	}
	if strings.ContainsAny(digits, ".e") {
		return parseFloat(literal)
	}
	v, err := strconv.ParseInt(lower, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return parseFloat(literal)
	}
	if err != nil {
		return Number{}, errors.Wrapf(ErrNumberFormat, "%s: %v", literal, err)
	}
	return NewIntNumber(v), nil
}

func parseFloat(literal string) (Number, error) {
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Number{}, errors.Wrapf(ErrNumberFormat, "%s: %v", literal, err)
	}
	return NewFloatNumber(v), nil
}

func signedNumber(v uint64, negative bool) Number {
	switch {
	case !negative && v <= math.MaxInt64:
		return NewIntNumber(int64(v))
	case negative && v <= 1<<63:
		return NewIntNumber(int64(-v))
	case negative:
		return NewFloatNumber(-float64(v))
	}
	return NewFloatNumber(float64(v))
}

func (n Number) Negate() Number {
	if n.IsFloat {
		return NewFloatNumber(-n.Float)
	}
	return NewIntNumber(-n.Integer)
}

// Value returns an int64 or a float64.
func (n Number) Value() interface{} {
	if n.IsFloat {
		return n.Float
	}
	return n.Integer
}

func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Integer, 10)
}
