package paramfile

import (
	"fmt"
	"strconv"
)

// Value is a numeric parameter field that may hold either a literal number
// or an expression over the document's other numeric fields:
//
//	insideWidth: 40
//	insideDepth: "insideWidth * 2"
//
// Expressions are resolved by Document.Resolve.
type Value struct {
	num  float64
	expr string
	set  bool
}

// Num returns a literal value.
func Num(v float64) Value { return Value{num: v, set: true} }

// Expr returns an expression value.
func Expr(src string) Value { return Value{expr: src, set: true} }

// IsSet reports whether the field was present in the document.
func (v Value) IsSet() bool { return v.set }

// IsExpr reports whether the field holds an unresolved expression.
func (v Value) IsExpr() bool { return v.expr != "" }

// Float returns the resolved numeric value.
func (v Value) Float() float64 { return v.num }

// UnmarshalYAML accepts a YAML scalar: numbers are taken literally, strings
// are kept as expressions for later resolution.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var f float64
	if err := unmarshal(&f); err == nil {
		*v = Num(f)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("parameter must be a number or an expression string")
	}
	// A quoted number is still a number.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = Num(f)
		return nil
	}
	*v = Expr(s)
	return nil
}

// MarshalYAML writes the literal number, or the expression source if the
// value has not been resolved.
func (v Value) MarshalYAML() (any, error) {
	if !v.set {
		return nil, nil
	}
	if v.IsExpr() {
		return v.expr, nil
	}
	return v.num, nil
}
