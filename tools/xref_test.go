package tools

import (
	"testing"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXRef_TracksDeclarationReadsAndWrites(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(`
		var x : int := 1;
		x := x + 1;
		print x;
	`, "test.mpl")
	require.NoError(t, err)

	sym, ok := gen.GetSymbol("x")
	require.True(t, ok)

	var decls, reads, writes int
	for _, ref := range sym.References {
		switch ref.Type {
		case RefDeclaration:
			decls++
		case RefRead:
			reads++
		case RefWrite:
			writes++
		}
	}
	assert.Equal(t, 1, decls)
	assert.Equal(t, 2, reads) // "x + 1" and "print x"
	assert.Equal(t, 1, writes)
}

func TestXRef_LoopVariableIsAWriteSite(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(`
		var i : int;
		for i in 0..1 do
		end for;
	`, "test.mpl")
	require.NoError(t, err)

	sym, _ := gen.GetSymbol("i")
	found := false
	for _, ref := range sym.References {
		if ref.Type == RefWrite {
			found = true
		}
	}
	assert.True(t, found)
}

func TestXRef_UnusedSymbolHasNoReadReference(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(`var x : int := 1;`, "test.mpl")
	require.NoError(t, err)

	unused := gen.GetUnusedSymbols()
	require.Len(t, unused, 1)
	assert.Equal(t, "x", unused[0].Name)
}

func TestXRef_ReportIncludesSummaryCounts(t *testing.T) {
	report, err := GenerateXRef(`
		var x : int := 1;
		print x;
	`, "test.mpl")
	require.NoError(t, err)
	assert.Contains(t, report, "Declared identifiers: 1")
}

func TestXRef_GenerateRejectsTypeErrors(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(`var x : int := "nope";`, "test.mpl")
	assert.Error(t, err)
}

func TestXRef_ReportDecodesOffsetsToRowColumn(t *testing.T) {
	fc := diag.NewFileContext("test.mpl", "var x : int := 1;\nprint x;\n")
	gen := NewXRefGenerator()
	symbols, err := gen.Generate("var x : int := 1;\nprint x;\n", "test.mpl")
	require.NoError(t, err)

	report := NewXRefReport(symbols, fc).String()
	assert.Contains(t, report, "2:7")
}
