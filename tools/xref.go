package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
)

// ReferenceType indicates how a declared identifier is used at a
// given site.
type ReferenceType int

const (
	RefDeclaration ReferenceType = iota // var statement
	RefRead                             // used as a value (print, assert, expression operand)
	RefWrite                            // assignment, read statement target, or loop binding
)

func (r ReferenceType) String() string {
	switch r {
	case RefDeclaration:
		return "declaration"
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Reference is a single occurrence of an identifier in the source.
type Reference struct {
	Type   ReferenceType
	Offset int
}

// Symbol is a declared identifier and every site that references it.
type Symbol struct {
	Name       string
	Type       parser.TypeName
	References []*Reference
}

// XRefGenerator builds cross-reference information for every
// identifier declared in a MiniPL program.
type XRefGenerator struct {
	symbols map[string]*Symbol
	order   []string
}

// NewXRefGenerator creates a new cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses and type-checks input, then walks it recording
// every declaration, read, and write site.
func (x *XRefGenerator) Generate(input, filename string) (map[string]*Symbol, error) {
	program, errs := parser.ParseSource(input)
	if errs.HasErrors() {
		return nil, fmt.Errorf("parse error in %s: %w", filename, errs)
	}
	if _, typeErr := semantic.Check(program); typeErr != nil {
		return nil, fmt.Errorf("type error in %s: %w", filename, typeErr)
	}

	x.walkStatements(program.Statements)
	return x.symbols, nil
}

func (x *XRefGenerator) declare(name string, typ parser.TypeName, offset int) {
	if _, exists := x.symbols[name]; !exists {
		x.order = append(x.order, name)
	}
	x.symbols[name] = &Symbol{Name: name, Type: typ}
	x.addRef(name, RefDeclaration, offset)
}

func (x *XRefGenerator) addRef(name string, refType ReferenceType, offset int) {
	sym, exists := x.symbols[name]
	if !exists {
		sym = &Symbol{Name: name}
		x.symbols[name] = sym
		x.order = append(x.order, name)
	}
	sym.References = append(sym.References, &Reference{Type: refType, Offset: offset})
}

func (x *XRefGenerator) walkStatements(stmts []parser.StatementWithPos) {
	for _, swp := range stmts {
		x.walkStatement(swp)
	}
}

func (x *XRefGenerator) walkStatement(swp parser.StatementWithPos) {
	switch st := swp.Statement.(type) {
	case *parser.DeclareStmt:
		if st.Initial != nil {
			x.walkExpr(st.Initial)
		}
		x.declare(st.Name, st.Type, swp.Start)

	case *parser.AssignStmt:
		x.walkExpr(st.Expr)
		x.addRef(st.Name, RefWrite, swp.Start)

	case *parser.PrintStmt:
		x.walkExpr(st.Expr)

	case *parser.ReadStmt:
		x.addRef(st.Name, RefWrite, swp.Start)

	case *parser.AssertStmt:
		x.walkExpr(st.Expr)

	case *parser.ForStmt:
		x.walkExpr(st.From)
		x.walkExpr(st.To)
		x.addRef(st.Var, RefWrite, swp.Start)
		x.walkStatements(st.Body)
	}
}

func (x *XRefGenerator) walkExpr(e parser.Expression) {
	switch n := e.(type) {
	case *parser.VariableExpr:
		x.addRef(n.Name, RefRead, n.Offset)
	case *parser.BinaryExpr:
		x.walkExpr(n.Left)
		x.walkExpr(n.Right)
	case *parser.UnaryExpr:
		x.walkExpr(n.Operand)
	}
}

// GetSymbols returns all symbols found in the source.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetSymbol returns a specific symbol by name.
func (x *XRefGenerator) GetSymbol(name string) (*Symbol, bool) {
	sym, exists := x.symbols[name]
	return sym, exists
}

// GetUnusedSymbols returns every declared symbol with no read
// reference.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, sym := range x.symbols {
		read := false
		for _, ref := range sym.References {
			if ref.Type == RefRead {
				read = true
				break
			}
		}
		if !read {
			unused = append(unused, sym)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })
	return unused
}

// XRefReport renders a cross-reference listing with offsets decoded
// to (row, column) via fc.
type XRefReport struct {
	symbols []*Symbol
	fc      *diag.FileContext
}

// NewXRefReport creates a report over symbols, sorted by name.
func NewXRefReport(symbols map[string]*Symbol, fc *diag.FileContext) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &XRefReport{symbols: sorted, fc: fc}
}

func (r *XRefReport) describe(offset int) string {
	pos, ok := r.fc.DecodeOffset(offset)
	if !ok {
		return fmt.Sprintf("offset %d", offset)
	}
	return fmt.Sprintf("%d:%d", pos.Row, pos.Column)
}

// String generates a text report.
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Identifier Cross-Reference\n")
	sb.WriteString("===========================\n\n")

	for _, sym := range r.symbols {
		fmt.Fprintf(&sb, "%-20s [%s]\n", sym.Name, sym.Type)

		refsByType := make(map[ReferenceType][]*Reference)
		for _, ref := range sym.References {
			refsByType[ref.Type] = append(refsByType[ref.Type], ref)
		}

		for _, refType := range []ReferenceType{RefDeclaration, RefWrite, RefRead} {
			refs := refsByType[refType]
			if len(refs) == 0 {
				continue
			}
			positions := make([]string, len(refs))
			for i, ref := range refs {
				positions[i] = r.describe(ref.Offset)
			}
			fmt.Fprintf(&sb, "  %-11s: %s\n", refType, strings.Join(positions, ", "))
		}
		sb.WriteString("\n")
	}

	readCount, writeCount := 0, 0
	for _, sym := range r.symbols {
		for _, ref := range sym.References {
			switch ref.Type {
			case RefRead:
				readCount++
			case RefWrite:
				writeCount++
			}
		}
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	fmt.Fprintf(&sb, "Declared identifiers: %d\n", len(r.symbols))
	fmt.Fprintf(&sb, "Total reads:          %d\n", readCount)
	fmt.Fprintf(&sb, "Total writes:         %d\n", writeCount)

	return sb.String()
}

// GenerateXRef is a convenience function to generate a
// cross-reference report.
func GenerateXRef(input, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input, filename)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols, diag.NewFileContext(filename, input)).String(), nil
}
