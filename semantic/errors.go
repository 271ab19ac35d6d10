package semantic

import (
	"fmt"

	"github.com/paavohuhtala/minipl-go/parser"
)

// TypeErrorKind enumerates every way type checking can fail. These
// form the fourth level of the error hierarchy, reported as a single
// diagnostic: type checking stops at the first one found.
type TypeErrorKind int

const (
	RedeclaredIdentifier TypeErrorKind = iota
	UndeclaredIdentifier
	IncompatibleTypes
	InvalidBinaryOp
	InvalidUnaryOp
	PrintArgumentError
	ReadArgumentError
	AssertArgumentError
	AssignToImmutable
)

// TypeError is the single diagnostic type checking ever produces. Only
// the fields relevant to Kind are populated; see the Error method for
// which ones each kind uses.
type TypeError struct {
	Kind   TypeErrorKind
	Offset int

	Name string

	Expected parser.TypeName
	Was      parser.TypeName

	BinOp       parser.BinaryOperator
	UnOp        parser.UnaryOperator
	Left, Right parser.TypeName
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case RedeclaredIdentifier:
		return fmt.Sprintf("redeclared identifier %q", e.Name)
	case UndeclaredIdentifier:
		return fmt.Sprintf("undeclared identifier %q", e.Name)
	case IncompatibleTypes:
		return fmt.Sprintf("expected type %s, found %s", e.Expected, e.Was)
	case InvalidBinaryOp:
		return fmt.Sprintf("operator %s cannot be applied to %s and %s", e.BinOp, e.Left, e.Right)
	case InvalidUnaryOp:
		return fmt.Sprintf("operator %s cannot be applied to %s", e.UnOp, e.Was)
	case PrintArgumentError:
		return fmt.Sprintf("cannot print a value of type %s", e.Was)
	case ReadArgumentError:
		return fmt.Sprintf("cannot read into a variable of type %s", e.Was)
	case AssertArgumentError:
		return fmt.Sprintf("assert requires a bool expression, found %s", e.Was)
	case AssignToImmutable:
		return fmt.Sprintf("cannot assign to immutable identifier %q", e.Name)
	default:
		return "type error"
	}
}
