package debugger

import (
	"testing"

	"github.com/paavohuhtala/minipl-go/interp"
)

func TestExpressionEvaluator_Numbers(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"Decimal", "42", interp.IntValue(42)},
		{"Zero", "0", interp.IntValue(0)},
		{"String", `"hello"`, interp.StringValue("hello")},
		{"Escaped string", `"a\nb"`, interp.StringValue("a\nb")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, bindings)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Variables(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{
		"x":      interp.IntValue(100),
		"y":      interp.IntValue(200),
		"name":   interp.StringValue("alice"),
		"active": interp.BoolValue(true),
	}

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"int var", "x", interp.IntValue(100)},
		{"other int var", "y", interp.IntValue(200)},
		{"string var", "name", interp.StringValue("alice")},
		{"bool var", "active", interp.BoolValue(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, bindings)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Arithmetic(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"Addition", "10 + 20", interp.IntValue(30)},
		{"Subtraction", "50 - 20", interp.IntValue(30)},
		{"Multiplication", "5 * 6", interp.IntValue(30)},
		{"Division", "60 / 2", interp.IntValue(30)},
		{"Precedence", "2 + 3 * 4", interp.IntValue(14)},
		{"Parens override precedence", "(2 + 3) * 4", interp.IntValue(20)},
		{"String concatenation", `"foo" + "bar"`, interp.StringValue("foobar")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, bindings)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Comparisons(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"Less true", "1 < 2", interp.BoolValue(true)},
		{"Less false", "2 < 1", interp.BoolValue(false)},
		{"Equal true", "5 = 5", interp.BoolValue(true)},
		{"Equal false", "5 = 6", interp.BoolValue(false)},
		{"Boolean and", "(1 < 2) & (5 = 5)", interp.BoolValue(true)},
		{"Negation", "!(1 < 2)", interp.BoolValue(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, bindings)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Compound variable expressions: the lexer/parser pairing here is built
// on precedence climbing over MiniPL's own grammar, so expressions
// mixing variables, arithmetic, and comparisons all resolve correctly.
func TestExpressionEvaluator_VariableOperations(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{
		"x": interp.IntValue(10),
		"y": interp.IntValue(20),
	}

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"Variable addition", "x + y", interp.IntValue(30)},
		{"Variable with constant", "x + 5", interp.IntValue(15)},
		{"Variable subtraction", "y - x", interp.IntValue(10)},
		{"Variable comparison", "x < y", interp.BoolValue(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, bindings)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ValueHistory(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	val1, _ := eval.EvaluateExpression("42", bindings)
	val2, _ := eval.EvaluateExpression("100", bindings)

	if eval.GetValueNumber() != 2 {
		t.Errorf("ValueNumber = %d, want 2", eval.GetValueNumber())
	}

	got1, err := eval.GetValue(1)
	if err != nil {
		t.Fatalf("GetValue(1) error = %v", err)
	}
	if got1 != val1 {
		t.Errorf("GetValue(1) = %v, want %v", got1, val1)
	}

	got2, err := eval.GetValue(2)
	if err != nil {
		t.Fatalf("GetValue(2) error = %v", err)
	}
	if got2 != val2 {
		t.Errorf("GetValue(2) = %v, want %v", got2, val2)
	}

	_, err = eval.GetValue(999)
	if err == nil {
		t.Error("Expected error for invalid value number")
	}
}

func TestExpressionEvaluator_ValueReference(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	eval.EvaluateExpression("7", bindings)

	got, err := eval.EvaluateExpression("$1 + 3", bindings)
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	if got != interp.IntValue(10) {
		t.Errorf("EvaluateExpression() = %v, want 10", got)
	}
}

func TestExpressionEvaluator_BooleanEvaluation(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{
		"done": interp.BoolValue(true),
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"True literal variable", "done", true},
		{"Comparison", "1 < 2", true},
		{"Failing comparison", "2 < 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, bindings)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Errors(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{"x": interp.IntValue(1)}

	tests := []struct {
		name string
		expr string
	}{
		{"Empty expression", ""},
		{"Unknown variable", "unknown_var"},
		{"Division by zero", "10 / 0"},
		{"Type mismatch", `x + "s"`},
		{"Unterminated string", `"abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.EvaluateExpression(tt.expr, bindings)
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestExpressionEvaluator_NonBoolCondition(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	_, err := eval.Evaluate("42", bindings)
	if err == nil {
		t.Error("Expected error evaluating a non-bool expression as a condition")
	}
}

func TestExpressionEvaluator_Reset(t *testing.T) {
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{}

	eval.EvaluateExpression("42", bindings)
	eval.EvaluateExpression("100", bindings)

	if eval.GetValueNumber() != 2 {
		t.Error("Value number should be 2 before reset")
	}

	eval.Reset()

	if eval.GetValueNumber() != 0 {
		t.Error("Value number should be 0 after reset")
	}

	if len(eval.valueHistory) != 0 {
		t.Error("Value history should be empty after reset")
	}
}
