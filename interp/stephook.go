package interp

import "github.com/paavohuhtala/minipl-go/parser"

// StepHook is called immediately before the interpreter executes a
// statement, at every nesting depth (including for-loop bodies). The
// debugger installs one to implement breakpoints and single-stepping;
// production runs leave it nil.
type StepHook func(pos parser.StatementWithPos)
