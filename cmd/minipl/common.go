package main

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/loader"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
)

// loadSource resolves --file, falling back to the bundled example.
func loadSource() (*loader.Source, error) {
	return loader.Load(filePath)
}

// parseAndCheck parses and type-checks source, returning a rendered
// diagnostic report (empty if the program is well-formed). An
// undeclared-identifier error is annotated with a "did you mean"
// suggestion when a declared name in the program is a close fuzzy
// match.
func parseAndCheck(src *loader.Source) (*parser.Program, *diag.FileContext, string) {
	fc := diag.NewFileContext(src.Name, src.Text)
	var opts []parser.Option
	if logger != nil {
		opts = append(opts, parser.WithLogger(logger))
	}
	program, errs := parser.ParseSource(src.Text, opts...)
	if errs.HasErrors() {
		diags := make([]diag.Diagnostic, len(errs.Errors))
		for i, e := range errs.Errors {
			diags[i] = diag.Diagnostic{Category: diag.CategoryParser, Message: e.Message, Offset: e.Pos.Offset}
		}
		return nil, fc, diag.FormatReport(fc, diags)
	}

	if _, typeErr := semantic.Check(program); typeErr != nil {
		message := typeErr.Error()
		if typeErr.Kind == semantic.UndeclaredIdentifier {
			if suggestion, ok := suggestIdentifier(program, typeErr.Name); ok {
				message = fmt.Sprintf("%s (did you mean %q?)", message, suggestion)
			}
		}
		diags := []diag.Diagnostic{{Category: diag.CategoryType, Message: message, Offset: typeErr.Offset}}
		return nil, fc, diag.FormatReport(fc, diags)
	}

	return program, fc, ""
}

// suggestIdentifier fuzzy-matches name against every identifier
// declared anywhere in program, returning the closest one.
func suggestIdentifier(program *parser.Program, name string) (string, bool) {
	candidates := declaredNames(program.Statements, nil)
	if len(candidates) == 0 {
		return "", false
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	return ranks[0].Target, true
}

func declaredNames(stmts []parser.StatementWithPos, names []string) []string {
	for _, swp := range stmts {
		switch st := swp.Statement.(type) {
		case *parser.DeclareStmt:
			names = append(names, st.Name)
		case *parser.ForStmt:
			names = append(names, st.Var)
			names = declaredNames(st.Body, names)
		}
	}
	return names
}
