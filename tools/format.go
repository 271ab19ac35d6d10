// Package tools implements developer-facing analyses over a parsed
// MiniPL program: pretty-printing, linting, and cross-referencing.
package tools

import (
	"fmt"
	"strings"

	"github.com/paavohuhtala/minipl-go/parser"
)

// FormatStyle selects how much whitespace the formatter inserts.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // one statement per line, tab-sized indent
	FormatCompact                     // minimal whitespace, statements still one per line
	FormatExpanded                    // blank line between top-level statements
)

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	Style      FormatStyle
	IndentSize int // spaces per nesting level
}

// DefaultFormatOptions returns the formatter's default options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatDefault, IndentSize: 4}
}

// CompactFormatOptions returns options for compact formatting.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact, IndentSize: 2}
}

// ExpandedFormatOptions returns options for expanded formatting.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, IndentSize: 4}
}

// Formatter re-renders a parsed MiniPL program from its AST, producing
// a canonical layout. Since it formats from the AST rather than the
// token stream, comments are not preserved — a formatted-then-parsed
// program is semantically identical to the input, but not necessarily
// byte-identical.
type Formatter struct {
	options *FormatOptions
	output  strings.Builder
}

// NewFormatter creates a new formatter.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format parses input and renders it in canonical form.
func (f *Formatter) Format(input, filename string) (string, error) {
	program, errs := parser.ParseSource(input)
	if errs.HasErrors() {
		return "", fmt.Errorf("parse error in %s: %w", filename, errs)
	}

	f.output.Reset()
	f.formatStatements(program.Statements, 0)
	return f.output.String(), nil
}

func (f *Formatter) indent(level int) string {
	return strings.Repeat(" ", level*f.options.IndentSize)
}

func (f *Formatter) formatStatements(stmts []parser.StatementWithPos, level int) {
	for i, swp := range stmts {
		f.formatStatement(swp.Statement, level)
		if f.options.Style == FormatExpanded && level == 0 && i != len(stmts)-1 {
			f.output.WriteString("\n")
		}
	}
}

func (f *Formatter) formatStatement(stmt parser.Statement, level int) {
	prefix := f.indent(level)
	switch st := stmt.(type) {
	case *parser.DeclareStmt:
		line := fmt.Sprintf("%svar %s : %s", prefix, st.Name, st.Type)
		if st.Initial != nil {
			line += " := " + f.formatExpr(st.Initial)
		}
		f.output.WriteString(line + ";\n")

	case *parser.AssignStmt:
		f.output.WriteString(fmt.Sprintf("%s%s := %s;\n", prefix, st.Name, f.formatExpr(st.Expr)))

	case *parser.PrintStmt:
		f.output.WriteString(fmt.Sprintf("%sprint %s;\n", prefix, f.formatExpr(st.Expr)))

	case *parser.ReadStmt:
		f.output.WriteString(fmt.Sprintf("%sread %s;\n", prefix, st.Name))

	case *parser.AssertStmt:
		f.output.WriteString(fmt.Sprintf("%sassert %s;\n", prefix, f.formatExpr(st.Expr)))

	case *parser.ForStmt:
		f.output.WriteString(fmt.Sprintf("%sfor %s in %s..%s do\n", prefix, st.Var, f.formatExpr(st.From), f.formatExpr(st.To)))
		f.formatStatements(st.Body, level+1)
		f.output.WriteString(prefix + "end for;\n")

	default:
		panic(fmt.Sprintf("tools: unknown statement node %T", st))
	}
}

// formatExpr renders an expression, parenthesizing a binary
// sub-expression whenever its own precedence is lower than its
// parent's, so the canonical form always round-trips to the same AST.
func (f *Formatter) formatExpr(e parser.Expression) string {
	switch n := e.(type) {
	case *parser.LiteralExpr:
		if n.Value.IsInt {
			return fmt.Sprintf("%d", n.Value.IntValue)
		}
		return fmt.Sprintf("%q", n.Value.StrValue)

	case *parser.VariableExpr:
		return n.Name

	case *parser.UnaryExpr:
		return n.Op.String() + f.parenIfBinary(n.Operand, unaryPrecedenceFloor)

	case *parser.BinaryExpr:
		prec := n.Op.Precedence()
		return fmt.Sprintf("%s %s %s", f.parenIfBinary(n.Left, prec), n.Op, f.parenIfBinary(n.Right, prec+1))

	default:
		panic(fmt.Sprintf("tools: unknown expression node %T", n))
	}
}

// unaryPrecedenceFloor is higher than every binary operator's
// precedence, so any binary sub-expression under a unary operator
// always gets parenthesized.
const unaryPrecedenceFloor = 100

func (f *Formatter) parenIfBinary(e parser.Expression, minPrecedence int) string {
	bin, ok := e.(*parser.BinaryExpr)
	if !ok || bin.Op.Precedence() >= minPrecedence {
		return f.formatExpr(e)
	}
	return "(" + f.formatExpr(e) + ")"
}

// FormatString is a convenience function to format a string with default options.
func FormatString(input, filename string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(input, filename)
}

// FormatStringWithStyle formats a string with the specified style.
func FormatStringWithStyle(input, filename string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(input, filename)
}
