package interp

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/parser"
)

// RuntimeError is a fatal, user-visible failure the interpreter itself
// raises (as opposed to a panic, which signals a checker invariant
// violation — an implementation bug, not a user error).
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

type binding struct {
	typ   parser.TypeName
	value Value
}

// Interpreter walks a type-checked program's statements in a single
// flat environment. Scopes are not required at runtime: the type
// checker already guarantees there is no hidden shadowing, so every
// variable name maps to exactly one binding for the life of the run.
type Interpreter struct {
	program *parser.Program
	env     map[string]*binding
	io      Io
	fc      *diag.FileContext
	hook    StepHook
	logger  *slog.Logger
}

func NewInterpreter(program *parser.Program, ioCap Io, fc *diag.FileContext, opts ...Option) *Interpreter {
	in := &Interpreter{
		program: program,
		env:     make(map[string]*binding),
		io:      ioCap,
		fc:      fc,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) SetStepHook(hook StepHook) {
	in.hook = hook
}

func (in *Interpreter) SetLogger(logger *slog.Logger) {
	in.logger = logger
}

// Snapshot returns a name-sorted-by-caller copy of every variable
// currently bound, for inspection by the debugger and the watch
// expression evaluator.
func (in *Interpreter) Snapshot() map[string]Value {
	out := make(map[string]Value, len(in.env))
	for name, b := range in.env {
		out[name] = b.value
	}
	return out
}

// SetVariable overwrites a currently-bound variable's value, for use by
// the debugger's "set" command. It does not change the variable's
// declared type; callers are responsible for passing a value of the
// right kind.
func (in *Interpreter) SetVariable(name string, v Value) error {
	b, ok := in.env[name]
	if !ok {
		return fmt.Errorf("no such variable: %s", name)
	}
	b.value = v
	return nil
}

// Run executes every top-level statement of the program in order.
func (in *Interpreter) Run() error {
	return in.execStatements(in.program.Statements)
}

func (in *Interpreter) execStatements(stmts []parser.StatementWithPos) error {
	for _, swp := range stmts {
		in.logger.Log(context.Background(), LevelTrace, "executing statement", "offset", swp.Start)
		if in.hook != nil {
			in.hook(swp)
		}
		if err := in.execStatement(swp); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execStatement(swp parser.StatementWithPos) error {
	switch st := swp.Statement.(type) {
	case *parser.DeclareStmt:
		return in.execDeclare(st)
	case *parser.AssignStmt:
		return in.execAssign(st)
	case *parser.PrintStmt:
		return in.execPrint(st)
	case *parser.ReadStmt:
		return in.execRead(st)
	case *parser.AssertStmt:
		return in.execAssert(swp, st)
	case *parser.ForStmt:
		return in.execFor(st)
	default:
		panic(fmt.Sprintf("interp: unknown statement node %T", st))
	}
}

func (in *Interpreter) execDeclare(st *parser.DeclareStmt) error {
	val := DefaultValue(st.Type)
	if st.Initial != nil {
		v, err := in.eval(st.Initial)
		if err != nil {
			return err
		}
		val = v
	}
	in.env[st.Name] = &binding{typ: st.Type, value: val}
	return nil
}

func (in *Interpreter) execAssign(st *parser.AssignStmt) error {
	val, err := in.eval(st.Expr)
	if err != nil {
		return err
	}
	b, ok := in.env[st.Name]
	if !ok {
		panic("interp: assignment to undeclared variable " + st.Name + "; checker should have rejected this")
	}
	b.value = val
	return nil
}

// execPrint writes the display form of the value with no trailing
// newline: a print immediately followed by another print produces two
// adjacent output chunks, not two lines.
func (in *Interpreter) execPrint(st *parser.PrintStmt) error {
	val, err := in.eval(st.Expr)
	if err != nil {
		return err
	}
	in.io.Write(val.Display())
	return nil
}

func (in *Interpreter) execRead(st *parser.ReadStmt) error {
	b, ok := in.env[st.Name]
	if !ok {
		panic("interp: read into undeclared variable " + st.Name + "; checker should have rejected this")
	}
	line, err := in.io.ReadLine()
	if err != nil {
		return &RuntimeError{Message: fmt.Sprintf("read %s: %v", st.Name, err)}
	}
	switch b.typ {
	case parser.TypeString:
		b.value = StringValue(line)
	case parser.TypeInt:
		n, err := strconv.ParseInt(line, 10, 32)
		if err != nil {
			return &RuntimeError{Message: fmt.Sprintf("read %s: %q is not a valid integer", st.Name, line)}
		}
		b.value = IntValue(int32(n))
	default:
		panic("interp: read into a bool variable; checker should have rejected this")
	}
	return nil
}

func (in *Interpreter) execAssert(swp parser.StatementWithPos, st *parser.AssertStmt) error {
	val, err := in.eval(st.Expr)
	if err != nil {
		return err
	}
	if val.Bool {
		return nil
	}
	in.io.Write("ASSERTION FAILED:\n")
	if in.fc != nil {
		in.io.Write(in.fc.QuoteRange(swp.Start, swp.End))
	}
	return nil
}

func (in *Interpreter) execFor(st *parser.ForStmt) error {
	from, err := in.eval(st.From)
	if err != nil {
		return err
	}
	to, err := in.eval(st.To)
	if err != nil {
		return err
	}
	b, ok := in.env[st.Var]
	if !ok {
		panic("interp: for-loop over undeclared variable " + st.Var + "; checker should have rejected this")
	}
	for i := from.Int; i <= to.Int; i++ {
		b.value = IntValue(i)
		if err := in.execStatements(st.Body); err != nil {
			return err
		}
	}
	return nil
}

// eval recursively evaluates an expression. Every arm that would be
// reached only by a type the checker should have rejected panics
// instead of returning an error: the interpreter trusts the checker,
// so reaching one of those arms is an implementation bug, not a
// user-visible failure.
func (in *Interpreter) eval(e parser.Expression) (Value, error) {
	switch n := e.(type) {
	case *parser.LiteralExpr:
		if n.Value.IsInt {
			return IntValue(n.Value.IntValue), nil
		}
		return StringValue(n.Value.StrValue), nil

	case *parser.VariableExpr:
		b, ok := in.env[n.Name]
		if !ok {
			panic("interp: read of undeclared variable " + n.Name + "; checker should have rejected this")
		}
		return b.value, nil

	case *parser.BinaryExpr:
		left, err := in.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := in.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return applyBinary(n.Op, left, right), nil

	case *parser.UnaryExpr:
		operand, err := in.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		if n.Op != parser.OpNot {
			panic("interp: unknown unary operator")
		}
		if operand.Kind != KindBool {
			panic("interp: unary ! applied to a non-bool value; checker should have rejected this")
		}
		return BoolValue(!operand.Bool), nil

	default:
		panic(fmt.Sprintf("interp: unknown expression node %T", n))
	}
}

// applyBinary evaluates a binary operator over two already-evaluated
// operands. Integer division truncates toward zero (Go's native
// integer division semantics); division by zero is left to panic
// naturally, matching the reference behaviour of leaving it undefined.
func applyBinary(op parser.BinaryOperator, left, right Value) Value {
	switch op {
	case parser.OpAdd:
		if left.Kind == KindInt {
			return IntValue(left.Int + right.Int)
		}
		return StringValue(left.Str + right.Str)
	case parser.OpSub:
		return IntValue(left.Int - right.Int)
	case parser.OpMul:
		return IntValue(left.Int * right.Int)
	case parser.OpDiv:
		return IntValue(left.Int / right.Int)
	case parser.OpLess:
		switch left.Kind {
		case KindInt:
			return BoolValue(left.Int < right.Int)
		case KindString:
			return BoolValue(left.Str < right.Str)
		default:
			return BoolValue(!left.Bool && right.Bool)
		}
	case parser.OpEqual:
		switch left.Kind {
		case KindInt:
			return BoolValue(left.Int == right.Int)
		case KindString:
			return BoolValue(left.Str == right.Str)
		default:
			return BoolValue(left.Bool == right.Bool)
		}
	case parser.OpAnd:
		return BoolValue(left.Bool && right.Bool)
	default:
		panic("interp: unknown binary operator")
	}
}
