// Package interp implements the tree-walking evaluator over a parsed
// and type-checked MiniPL program.
package interp

import (
	"strconv"

	"github.com/paavohuhtala/minipl-go/parser"
)

// ValueKind tags a runtime Value. Comparison between values of the
// same kind is always defined; the type checker guarantees the
// interpreter never has to compare across kinds.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindString
	KindBool
)

// Value is a tagged runtime value: an int32, a string, or a bool.
type Value struct {
	Kind ValueKind
	Int  int32
	Str  string
	Bool bool
}

func IntValue(v int32) Value      { return Value{Kind: KindInt, Int: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func BoolValue(v bool) Value     { return Value{Kind: KindBool, Bool: v} }

// Display renders a value's output form: integers as decimal, bools as
// lowercase true/false, strings raw with no quoting.
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// DefaultValue returns a type's zero value: 0, "", or false.
func DefaultValue(t parser.TypeName) Value {
	switch t {
	case parser.TypeString:
		return StringValue("")
	case parser.TypeBool:
		return BoolValue(false)
	default:
		return IntValue(0)
	}
}
