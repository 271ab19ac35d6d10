package debugger

import (
	"fmt"
	"strings"

	"github.com/paavohuhtala/minipl-go/interp"
)

// ExpressionEvaluator evaluates the small expression language shared by
// the debugger's print, watch, and break-condition commands, and keeps a
// history of evaluated results addressable as $1, $2, etc.
type ExpressionEvaluator struct {
	valueHistory []interp.Value
	valueNumber  int
}

// NewExpressionEvaluator creates a new expression evaluator.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// EvaluateExpression evaluates expr against the given variable bindings
// and records the result in the value history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, bindings map[string]interp.Value) (interp.Value, error) {
	result, err := e.evaluate(expr, bindings)
	if err != nil {
		return interp.Value{}, err
	}

	e.valueHistory = append(e.valueHistory, result)
	e.valueNumber = len(e.valueHistory)

	return result, nil
}

// Evaluate evaluates expr as a boolean condition, for breakpoint
// conditions and watch triggers.
func (e *ExpressionEvaluator) Evaluate(expr string, bindings map[string]interp.Value) (bool, error) {
	result, err := e.evaluate(expr, bindings)
	if err != nil {
		return false, err
	}
	if result.Kind != interp.KindBool {
		return false, fmt.Errorf("condition %q does not evaluate to a bool", expr)
	}
	return result.Bool, nil
}

// GetValueNumber returns the current value number.
func (e *ExpressionEvaluator) GetValueNumber() int {
	return e.valueNumber
}

// GetValue returns a value from history by number (1-based).
func (e *ExpressionEvaluator) GetValue(number int) (interp.Value, error) {
	if number < 1 || number > len(e.valueHistory) {
		return interp.Value{}, fmt.Errorf("value $%d not in history", number)
	}
	return e.valueHistory[number-1], nil
}

func (e *ExpressionEvaluator) evaluate(expr string, bindings map[string]interp.Value) (interp.Value, error) {
	if strings.TrimSpace(expr) == "" {
		return interp.Value{}, fmt.Errorf("empty expression")
	}

	lexer := NewExprLexer(expr)
	tokens, err := lexer.TokenizeAll()
	if err != nil {
		return interp.Value{}, err
	}

	parser := NewExprParser(tokens, bindings, e)
	return parser.Parse()
}

// Reset clears the value history.
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
	e.valueNumber = 0
}
