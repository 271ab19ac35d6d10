package semantic

import "github.com/paavohuhtala/minipl-go/parser"

// TypeChecker walks a parsed program once, maintaining a current-scope
// cursor that starts at the global scope and descends into a fresh
// child scope for each for-loop body.
type TypeChecker struct {
	tree *ScopeTree
}

func NewTypeChecker() *TypeChecker {
	return &TypeChecker{tree: NewScopeTree()}
}

// Check type-checks program, returning the resulting scope tree and
// the first type error encountered, if any. None of the callers in
// this module use the returned tree.
// Checking is fail-fast: it stops at the first error rather than
// collecting a list, unlike parsing.
func Check(program *parser.Program) (*ScopeTree, *TypeError) {
	tc := NewTypeChecker()
	if err := tc.checkStatements(GlobalScope, program.Statements); err != nil {
		return tc.tree, err
	}
	return tc.tree, nil
}

func (tc *TypeChecker) checkStatements(scope ScopeKey, stmts []parser.StatementWithPos) *TypeError {
	for _, swp := range stmts {
		if err := tc.checkStatement(scope, swp); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TypeChecker) checkStatement(scope ScopeKey, swp parser.StatementWithPos) *TypeError {
	switch st := swp.Statement.(type) {
	case *parser.DeclareStmt:
		return tc.checkDeclare(scope, swp.Start, st)
	case *parser.AssignStmt:
		return tc.checkAssign(scope, swp.Start, st)
	case *parser.PrintStmt:
		return tc.checkPrint(scope, st)
	case *parser.ReadStmt:
		return tc.checkRead(scope, swp.Start, st)
	case *parser.AssertStmt:
		return tc.checkAssert(scope, st)
	case *parser.ForStmt:
		return tc.checkFor(scope, swp.Start, st)
	default:
		return nil
	}
}

func (tc *TypeChecker) checkDeclare(scope ScopeKey, offset int, st *parser.DeclareStmt) *TypeError {
	// A duplicate name anywhere on the visible parent chain is a
	// redeclaration, not only one in the exact current scope: every
	// for-body scope still shares one namespace with its ancestors.
	if _, ok := tc.tree.Lookup(scope, st.Name); ok {
		return &TypeError{Kind: RedeclaredIdentifier, Offset: offset, Name: st.Name}
	}
	if st.Initial != nil {
		initType, err := tc.exprType(scope, st.Initial)
		if err != nil {
			return err
		}
		if initType != st.Type {
			return &TypeError{Kind: IncompatibleTypes, Offset: parser.ExprOffset(st.Initial), Expected: st.Type, Was: initType}
		}
	}
	tc.tree.Define(scope, st.Name, st.Type, true)
	return nil
}

func (tc *TypeChecker) checkAssign(scope ScopeKey, offset int, st *parser.AssignStmt) *TypeError {
	sym, ok := tc.tree.Lookup(scope, st.Name)
	if !ok {
		return &TypeError{Kind: UndeclaredIdentifier, Offset: offset, Name: st.Name}
	}
	exprType, err := tc.exprType(scope, st.Expr)
	if err != nil {
		return err
	}
	if exprType != sym.Type {
		return &TypeError{Kind: IncompatibleTypes, Offset: parser.ExprOffset(st.Expr), Expected: sym.Type, Was: exprType}
	}
	if !sym.Mutable {
		return &TypeError{Kind: AssignToImmutable, Offset: offset, Name: st.Name}
	}
	return nil
}

func (tc *TypeChecker) checkPrint(scope ScopeKey, st *parser.PrintStmt) *TypeError {
	t, err := tc.exprType(scope, st.Expr)
	if err != nil {
		return err
	}
	if t == parser.TypeBool {
		return &TypeError{Kind: PrintArgumentError, Offset: parser.ExprOffset(st.Expr), Was: t}
	}
	return nil
}

func (tc *TypeChecker) checkRead(scope ScopeKey, offset int, st *parser.ReadStmt) *TypeError {
	sym, ok := tc.tree.Lookup(scope, st.Name)
	if !ok {
		return &TypeError{Kind: UndeclaredIdentifier, Offset: offset, Name: st.Name}
	}
	if sym.Type == parser.TypeBool {
		return &TypeError{Kind: ReadArgumentError, Offset: offset, Was: sym.Type}
	}
	return nil
}

func (tc *TypeChecker) checkAssert(scope ScopeKey, st *parser.AssertStmt) *TypeError {
	t, err := tc.exprType(scope, st.Expr)
	if err != nil {
		return err
	}
	if t != parser.TypeBool {
		return &TypeError{Kind: AssertArgumentError, Offset: parser.ExprOffset(st.Expr), Was: t}
	}
	return nil
}

func (tc *TypeChecker) checkFor(scope ScopeKey, offset int, st *parser.ForStmt) *TypeError {
	sym, ok := tc.tree.Lookup(scope, st.Var)
	if !ok {
		return &TypeError{Kind: UndeclaredIdentifier, Offset: offset, Name: st.Var}
	}
	if sym.Type != parser.TypeInt {
		return &TypeError{Kind: IncompatibleTypes, Offset: offset, Expected: parser.TypeInt, Was: sym.Type}
	}
	if !sym.Mutable {
		return &TypeError{Kind: AssignToImmutable, Offset: offset, Name: st.Var}
	}

	fromType, err := tc.exprType(scope, st.From)
	if err != nil {
		return err
	}
	if fromType != parser.TypeInt {
		return &TypeError{Kind: IncompatibleTypes, Offset: parser.ExprOffset(st.From), Expected: parser.TypeInt, Was: fromType}
	}
	toType, err := tc.exprType(scope, st.To)
	if err != nil {
		return err
	}
	if toType != parser.TypeInt {
		return &TypeError{Kind: IncompatibleTypes, Offset: parser.ExprOffset(st.To), Expected: parser.TypeInt, Was: toType}
	}

	child := tc.tree.AddChild(scope)
	tc.tree.SetMutable(scope, st.Var, false)
	bodyErr := tc.checkStatements(child, st.Body)
	tc.tree.SetMutable(scope, st.Var, true)
	return bodyErr
}

// exprType infers the type of an expression, walking it bottom-up and
// validating every operator application against the type table.
func (tc *TypeChecker) exprType(scope ScopeKey, e parser.Expression) (parser.TypeName, *TypeError) {
	switch n := e.(type) {
	case *parser.LiteralExpr:
		if n.Value.IsInt {
			return parser.TypeInt, nil
		}
		return parser.TypeString, nil

	case *parser.VariableExpr:
		sym, ok := tc.tree.Lookup(scope, n.Name)
		if !ok {
			return 0, &TypeError{Kind: UndeclaredIdentifier, Offset: n.Offset, Name: n.Name}
		}
		return sym.Type, nil

	case *parser.BinaryExpr:
		left, err := tc.exprType(scope, n.Left)
		if err != nil {
			return 0, err
		}
		right, err := tc.exprType(scope, n.Right)
		if err != nil {
			return 0, err
		}
		return evaluateBinaryType(n.Op, left, right, n.Offset)

	case *parser.UnaryExpr:
		operand, err := tc.exprType(scope, n.Operand)
		if err != nil {
			return 0, err
		}
		if operand != parser.TypeBool {
			return 0, &TypeError{Kind: InvalidUnaryOp, Offset: n.Offset, UnOp: n.Op, Was: operand}
		}
		return parser.TypeBool, nil

	default:
		panic("semantic: unknown expression node")
	}
}

// evaluateBinaryType implements the operator/operand-type table: + is
// overloaded over (int,int) and (string,string); -, *, / require
// (int,int); < and = accept any matching pair and yield bool; & is
// boolean conjunction.
func evaluateBinaryType(op parser.BinaryOperator, left, right parser.TypeName, offset int) (parser.TypeName, *TypeError) {
	switch op {
	case parser.OpAdd:
		if left == right && (left == parser.TypeInt || left == parser.TypeString) {
			return left, nil
		}
	case parser.OpSub, parser.OpMul, parser.OpDiv:
		if left == parser.TypeInt && right == parser.TypeInt {
			return parser.TypeInt, nil
		}
	case parser.OpLess, parser.OpEqual:
		if left == right {
			return parser.TypeBool, nil
		}
	case parser.OpAnd:
		if left == parser.TypeBool && right == parser.TypeBool {
			return parser.TypeBool, nil
		}
	}
	return 0, &TypeError{Kind: InvalidBinaryOp, Offset: offset, BinOp: op, Left: left, Right: right}
}
