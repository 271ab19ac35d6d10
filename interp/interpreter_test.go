package interp_test

import (
	"testing"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/interp"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string, input ...string) (*interp.BufferIo, error) {
	t.Helper()
	program, errs := parser.ParseSource(source)
	require.False(t, errs.HasErrors(), "unexpected parse errors: %v", errs)

	_, typeErr := semantic.Check(program)
	require.Nil(t, typeErr, "unexpected type error: %v", typeErr)

	io := interp.NewBufferIo(input...)
	fc := diag.NewFileContext("test.mpl", source)
	err := interp.NewInterpreter(program, io, fc).Run()
	return io, err
}

func TestInterpret_PrintWritesWithNoTrailingNewline(t *testing.T) {
	io, err := run(t, `print "a"; print "b";`)
	require.NoError(t, err)
	assert.Equal(t, "ab", io.Joined())
}

func TestInterpret_IntegerArithmeticAndConcatenation(t *testing.T) {
	io, err := run(t, `
		var x : int := 4 + (6 * 2);
		print x;
		var y : string := "Hello, ";
		y := y + "world!";
		print y;
	`)
	require.NoError(t, err)
	assert.Equal(t, "16Hello, world!", io.Joined())
}

func TestInterpret_IntegerDivisionTruncatesTowardZero(t *testing.T) {
	io, err := run(t, `
		var a : int := 7 / 2;
		var b : int := (0 - 7) / 2;
		print a;
		print "/";
		print b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3/-3", io.Joined())
}

func TestInterpret_DefaultValues(t *testing.T) {
	io, err := run(t, `
		var i : int;
		var s : string;
		print i;
		print "|";
		print s;
		print "|";
	`)
	require.NoError(t, err)
	assert.Equal(t, "0||", io.Joined())
}

func TestInterpret_ReadIntAndString(t *testing.T) {
	io, err := run(t, `
		var n : int;
		read n;
		var s : string;
		read s;
		print n;
		print s;
	`, "42", "hi")
	require.NoError(t, err)
	assert.Equal(t, "42hi", io.Joined())
}

func TestInterpret_ReadInvalidIntReturnsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var n : int;
		read n;
	`, "not a number")
	require.Error(t, err)
	var rtErr *interp.RuntimeError
	assert.ErrorAs(t, err, &rtErr)
}

func TestInterpret_ForLoopRunsInclusiveRange(t *testing.T) {
	io, err := run(t, `
		var i : int;
		for i in 1..3 do
			print i;
		end for;
	`)
	require.NoError(t, err)
	assert.Equal(t, "123", io.Joined())
}

func TestInterpret_ForLoopWithZeroIterationsRetainsLastValue(t *testing.T) {
	io, err := run(t, `
		var i : int := 99;
		for i in 5..1 do
			print "should not run";
		end for;
		print i;
	`)
	require.NoError(t, err)
	assert.Equal(t, "99", io.Joined())
}

func TestInterpret_AssertSuccessProducesNoOutput(t *testing.T) {
	io, err := run(t, `assert 1 < 2;`)
	require.NoError(t, err)
	assert.Equal(t, "", io.Joined())
}

func TestInterpret_AssertFailureWritesQuotedSource(t *testing.T) {
	source := `var x : int := 1;
assert x = 2;
`
	io, err := run(t, source)
	require.NoError(t, err)
	assert.Contains(t, io.Joined(), "ASSERTION FAILED:\n")
	assert.Contains(t, io.Joined(), "assert x = 2;")
}

func TestInterpret_BooleanAndNegation(t *testing.T) {
	io, err := run(t, `
		var a : bool := 1 < 2;
		var b : bool := !(2 < 1);
		assert a;
		assert b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "", io.Joined())
}
