package tools

import (
	"strings"
	"testing"

	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_DeclarationWithInitializer(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`var x : int := 1 + 2;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "var x : int := 1 + 2;\n", result)
}

func TestFormat_DeclarationWithoutInitializer(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`var s : string;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "var s : string;\n", result)
}

func TestFormat_ForLoopIsIndented(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`for i in 0..10 do print i; end for;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "for i in 0..10 do\n    print i;\nend for;\n", result)
}

func TestFormat_NestedForLoopsIndentByLevel(t *testing.T) {
	source := `for i in 0..1 do for j in 0..1 do print j; end for; end for;`
	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.mpl")
	require.NoError(t, err)
	assert.Contains(t, result, "    for j in 0..1 do\n        print j;\n    end for;\n")
}

func TestFormat_CompactUsesSmallerIndent(t *testing.T) {
	result, err := NewFormatter(CompactFormatOptions()).Format(`for i in 0..1 do print i; end for;`, "test.mpl")
	require.NoError(t, err)
	assert.Contains(t, result, "  print i;\n")
}

func TestFormat_ExpandedAddsBlankLinesBetweenTopLevelStatements(t *testing.T) {
	result, err := NewFormatter(ExpandedFormatOptions()).Format(`var x : int := 1; var y : int := 2;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "var x : int := 1;\n\nvar y : int := 2;\n", result)
}

func TestFormat_ParenthesesOnlyAddedWhenPrecedenceRequiresThem(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`print 1 + 2 * 3;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "print 1 + 2 * 3;\n", result)
}

func TestFormat_ParenthesesPreservedWhereSemanticallyRequired(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`print (1 + 2) * 3;`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "print (1 + 2) * 3;\n", result)
}

func TestFormat_RightAssociativeSubtractionIsParenthesized(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`print 1 - (2 - 3);`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "print 1 - (2 - 3);\n", result)
}

func TestFormat_StringLiteralsAreQuoted(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format(`print "hi";`, "test.mpl")
	require.NoError(t, err)
	assert.Equal(t, "print \"hi\";\n", result)
}

func TestFormat_InvalidSourceReturnsError(t *testing.T) {
	_, err := NewFormatter(DefaultFormatOptions()).Format(`var x int;`, "test.mpl")
	require.Error(t, err)
}

func TestFormat_OutputReparsesToAnEquivalentProgram(t *testing.T) {
	source := `
		var x : int := (1 + 2) * 3;
		for i in 0..x do
			print i;
		end for;
	`
	formatted, err := FormatString(source, "test.mpl")
	require.NoError(t, err)

	reparsed, errs := parser.ParseSource(formatted)
	require.False(t, errs.HasErrors())
	assert.Len(t, reparsed.Statements, 2)
}

func TestFormatStringWithStyle_SelectsRequestedStyle(t *testing.T) {
	result, err := FormatStringWithStyle(`for i in 0..1 do print i; end for;`, "test.mpl", FormatCompact)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "for i in 0..1 do\n  print"))
}
