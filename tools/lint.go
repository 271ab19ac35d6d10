package tools

import (
	"fmt"
	"sort"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // parse/type errors
	LintWarning                  // best-practice violations
	LintInfo                     // suggestions
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single lint finding.
type LintIssue struct {
	Level   LintLevel
	Offset  int
	Message string
	Code    string // e.g. "UNUSED_VARIABLE", "REDUNDANT_ASSIGNMENT"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("offset %d: %s: %s [%s]", i.Offset, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	Strict               bool // treat warnings as errors
	CheckUnusedVars      bool // unused-variable
	CheckRedundantAssign bool // redundant-assignment
	CheckConstantCond    bool // constant-condition
}

// DefaultLintOptions returns default linter options.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnusedVars:      true,
		CheckRedundantAssign: true,
		CheckConstantCond:    true,
	}
}

// varInfo tracks a declared variable's declaration offset and whether
// it has ever been read.
type varInfo struct {
	declOffset int
	read       bool
}

// Linter runs a suite of supplemental static checks over a MiniPL
// program. The checks themselves report warnings; a program that fails
// to parse or type-check is reported as LintError issues instead.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	vars map[string]*varInfo
	// lastWrite tracks, per variable, the offset of its most recent
	// write that has not yet been read — used to flag a second write
	// that clobbers the first without an intervening read.
	lastWrite map[string]int
}

// NewLinter creates a new linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:   options,
		vars:      make(map[string]*varInfo),
		lastWrite: make(map[string]int),
	}
}

// Lint analyzes the given MiniPL source. Parse and type errors are
// reported as LintError issues and short-circuit the remaining
// passes, which all assume a well-formed program.
func (l *Linter) Lint(input, filename string) []*LintIssue {
	program, errs := parser.ParseSource(input)
	if errs.HasErrors() {
		for _, serr := range errs.Errors {
			l.issues = append(l.issues, &LintIssue{Level: LintError, Offset: serr.Pos.Offset, Message: serr.Message, Code: "PARSE_ERROR"})
		}
		return l.issues
	}

	if _, typeErr := semantic.Check(program); typeErr != nil {
		l.issues = append(l.issues, &LintIssue{Level: LintError, Offset: typeErr.Offset, Message: typeErr.Error(), Code: "TYPE_ERROR"})
		return l.issues
	}

	l.walkStatements(program.Statements)

	if l.options.CheckUnusedVars {
		l.reportUnusedVariables()
	}

	sort.Slice(l.issues, func(i, j int) bool { return l.issues[i].Offset < l.issues[j].Offset })
	return l.issues
}

func (l *Linter) walkStatements(stmts []parser.StatementWithPos) {
	for _, swp := range stmts {
		l.walkStatement(swp)
	}
}

func (l *Linter) walkStatement(swp parser.StatementWithPos) {
	switch st := swp.Statement.(type) {
	case *parser.DeclareStmt:
		l.vars[st.Name] = &varInfo{declOffset: swp.Start}
		if st.Initial != nil {
			l.walkExpr(st.Initial)
		}

	case *parser.AssignStmt:
		l.walkExpr(st.Expr)
		if l.options.CheckRedundantAssign {
			if prevOffset, clobbered := l.lastWrite[st.Name]; clobbered {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Offset:  prevOffset,
					Message: fmt.Sprintf("value assigned to %q here is never read before it is overwritten", st.Name),
					Code:    "REDUNDANT_ASSIGNMENT",
				})
			}
		}
		l.lastWrite[st.Name] = swp.Start

	case *parser.PrintStmt:
		l.walkExpr(st.Expr)

	case *parser.ReadStmt:
		delete(l.lastWrite, st.Name)
		if info := l.vars[st.Name]; info != nil {
			info.read = true
		}

	case *parser.AssertStmt:
		if l.options.CheckConstantCond && isConstantCondition(st.Expr) {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Offset:  parser.ExprOffset(st.Expr),
				Message: "assert condition is built entirely from literals; this is likely a mistake",
				Code:    "CONSTANT_CONDITION",
			})
		}
		l.walkExpr(st.Expr)

	case *parser.ForStmt:
		l.walkExpr(st.From)
		l.walkExpr(st.To)
		delete(l.lastWrite, st.Var)
		if info := l.vars[st.Var]; info != nil {
			info.read = true
		}
		l.walkStatements(st.Body)
	}
}

// walkExpr marks every variable reference in e as read, clearing any
// pending redundant-assignment warning for it.
func (l *Linter) walkExpr(e parser.Expression) {
	switch n := e.(type) {
	case *parser.VariableExpr:
		if info := l.vars[n.Name]; info != nil {
			info.read = true
		}
		delete(l.lastWrite, n.Name)
	case *parser.BinaryExpr:
		l.walkExpr(n.Left)
		l.walkExpr(n.Right)
	case *parser.UnaryExpr:
		l.walkExpr(n.Operand)
	}
}

// isConstantCondition reports whether e contains no variable
// reference at all, meaning its value is the same on every run.
func isConstantCondition(e parser.Expression) bool {
	switch n := e.(type) {
	case *parser.LiteralExpr:
		return true
	case *parser.VariableExpr:
		return false
	case *parser.BinaryExpr:
		return isConstantCondition(n.Left) && isConstantCondition(n.Right)
	case *parser.UnaryExpr:
		return isConstantCondition(n.Operand)
	default:
		return false
	}
}

func (l *Linter) reportUnusedVariables() {
	for name, info := range l.vars {
		if !info.read {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Offset:  info.declOffset,
				Message: fmt.Sprintf("variable %q is never read", name),
				Code:    "UNUSED_VARIABLE",
			})
		}
	}
}

// FormatIssues renders a list of issues as one line per issue, with
// each offset decoded to a (row, column) via fc.
func FormatIssues(fc *diag.FileContext, issues []*LintIssue) string {
	var out string
	for _, issue := range issues {
		pos, ok := fc.DecodeOffset(issue.Offset)
		if ok {
			out += fmt.Sprintf("%s:%d:%d: %s: %s [%s]\n", fc.Name(), pos.Row, pos.Column, issue.Level, issue.Message, issue.Code)
		} else {
			out += issue.String() + "\n"
		}
	}
	return out
}
