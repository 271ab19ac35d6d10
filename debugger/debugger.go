package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/paavohuhtala/minipl-go/config"
	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/interp"
	"github.com/paavohuhtala/minipl-go/loader"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
)

// StepMode represents different stepping modes.
type StepMode int

const (
	StepNone   StepMode = iota // not stepping
	StepSingle                 // pause at the very next statement
	StepOver                   // run an entire for-loop body as one unit
	StepOut                    // run until the enclosing for-loop finishes
)

// forRange is the half-open statement-offset span of a for-loop body,
// used by "next" and "finish" to treat a whole loop as a single step.
type forRange struct {
	start, end int
}

// pauseEvent is sent on the paused channel every time execution stops,
// whether because of a step, a breakpoint, or a watchpoint.
type pauseEvent struct {
	pos    parser.StatementWithPos
	reason string
}

// Debugger drives one MiniPL program under interactive control. Because
// interp.Interpreter.Run is a single synchronous call with no externally
// step-able API, Run is driven on its own goroutine; its StepHook blocks
// on a resume channel every time the debugger needs to pause, and the
// CLI/TUI front end drives execution by selecting between the paused and
// done channels.
type Debugger struct {
	program *parser.Program
	fc      *diag.FileContext
	interp  *interp.Interpreter

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator

	Running  bool
	started  bool
	StepMode StepMode

	forRanges      []forRange
	lineStarts     map[int]int // 1-based line number -> statement start offset
	stepOverTarget int         // end offset of the for-loop range being stepped over

	current     parser.StatementWithPos
	hasCurrent  bool
	LastCommand string
	lastRunErr  error

	resume         chan struct{}
	paused         chan pauseEvent
	done           chan error
	pauseRequested chan struct{}

	stdin  *bufio.Scanner
	Output strings.Builder
}

// debuggerIO is the interp.Io the debugged program runs against: print
// output accumulates in the debugger's own output buffer rather than
// going straight to a terminal, and read statements pull lines from the
// same stdin scanner the CLI uses for commands.
type debuggerIO struct {
	d *Debugger
}

func (pio *debuggerIO) Write(s string) {
	pio.d.Output.WriteString(s)
}

func (pio *debuggerIO) ReadLine() (string, error) {
	if !pio.d.stdin.Scan() {
		if err := pio.d.stdin.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return pio.d.stdin.Text(), nil
}

// NewDebugger creates a debugger over an already type-checked program,
// reading its own "read" statements from stdin.
func NewDebugger(cfg *config.Config, program *parser.Program, fc *diag.FileContext) *Debugger {
	return NewDebuggerWithStdin(cfg, program, fc, os.Stdin)
}

// NewDebuggerWithStdin creates a debugger whose "read" statements pull
// from stdin, a generalization used by the execution service to redirect
// guest program input to a network-fed pipe instead of the process's own
// standard input.
func NewDebuggerWithStdin(cfg *config.Config, program *parser.Program, fc *diag.FileContext, stdin io.Reader) *Debugger {
	d := &Debugger{
		Breakpoints:    NewBreakpointManager(),
		Watchpoints:    NewWatchpointManager(),
		History:        NewCommandHistoryWithSize(cfg.Debugger.HistorySize),
		Evaluator:      NewExpressionEvaluator(),
		StepMode:       StepNone,
		stdin:          bufio.NewScanner(stdin),
		pauseRequested: make(chan struct{}, 1),
	}
	d.LoadProgram(program, fc)
	return d
}

// RequestPause asks a freely running program to stop at its next
// statement boundary. Safe to call from a different goroutine than the
// one driving execution.
func (d *Debugger) RequestPause() {
	select {
	case d.pauseRequested <- struct{}{}:
	default:
	}
}

// LoadProgram installs a new program to debug, resetting all execution
// state but keeping breakpoints, watchpoints, and history.
func (d *Debugger) LoadProgram(program *parser.Program, fc *diag.FileContext) {
	d.program = program
	d.fc = fc
	d.interp = nil
	d.Running = false
	d.started = false
	d.StepMode = StepNone
	d.hasCurrent = false
	d.lastRunErr = nil
	d.forRanges = collectForRanges(program.Statements, nil)
	d.lineStarts = buildLineStarts(program.Statements, fc)
	if d.pauseRequested == nil {
		d.pauseRequested = make(chan struct{}, 1)
	}
	select {
	case <-d.pauseRequested:
	default:
	}
}

// collectForRanges walks every statement, recording the [start, end)
// offset span of each for-loop's body so "next" and "finish" can treat
// an entire loop as a single unit of stepping.
func collectForRanges(stmts []parser.StatementWithPos, ranges []forRange) []forRange {
	for _, swp := range stmts {
		if forStmt, ok := swp.Statement.(*parser.ForStmt); ok {
			if len(forStmt.Body) > 0 {
				ranges = append(ranges, forRange{
					start: forStmt.Body[0].Start,
					end:   forStmt.Body[len(forStmt.Body)-1].End,
				})
			}
			ranges = collectForRanges(forStmt.Body, ranges)
		}
	}
	return ranges
}

// buildLineStarts maps each 1-based source line to the offset of the
// first statement that begins on it, for line-number breakpoints.
func buildLineStarts(stmts []parser.StatementWithPos, fc *diag.FileContext) map[int]int {
	out := make(map[int]int)
	var walk func([]parser.StatementWithPos)
	walk = func(ss []parser.StatementWithPos) {
		for _, swp := range ss {
			if fc != nil {
				if pos, ok := fc.DecodeOffset(swp.Start); ok {
					if _, exists := out[pos.Row]; !exists {
						out[pos.Row] = swp.Start
					}
				}
			}
			if forStmt, ok := swp.Statement.(*parser.ForStmt); ok {
				walk(forStmt.Body)
			}
		}
	}
	walk(stmts)
	return out
}

// rangeStartingAt returns the for-loop range beginning exactly at
// offset, if any.
func (d *Debugger) rangeStartingAt(offset int) (forRange, bool) {
	for _, r := range d.forRanges {
		if r.start == offset {
			return r, true
		}
	}
	return forRange{}, false
}

// innermostRangeContaining returns the tightest for-loop range that
// contains offset, if any.
func (d *Debugger) innermostRangeContaining(offset int) (forRange, bool) {
	best := forRange{}
	found := false
	for _, r := range d.forRanges {
		if offset >= r.start && offset < r.end {
			if !found || (r.end-r.start) < (best.end-best.start) {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// ResolveLocation resolves a break/tbreak location spec: either
// "offset:N" naming a raw character offset, or a bare line number
// resolved through the precomputed line table.
func (d *Debugger) ResolveLocation(spec string) (int, error) {
	if rest, ok := strings.CutPrefix(spec, "offset:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid offset: %s", rest)
		}
		return n, nil
	}

	line, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid location: %s", spec)
	}
	offset, ok := d.lineStarts[line]
	if !ok {
		return 0, fmt.Errorf("no statement starts on line %d", line)
	}
	return offset, nil
}

// ExecuteCommand processes one command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return d.handleCommand(cmd, args)
}

// handleCommand dispatches a command to its handler.
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	// Execution control
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)
	case "finish", "fin":
		return d.cmdFinish(args)

	// Breakpoints
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	// Watchpoints
	case "watch", "w":
		return d.cmdWatch(args)
	case "rwatch":
		return d.cmdRWatch(args)
	case "awatch":
		return d.cmdAWatch(args)

	// Inspection
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "backtrace", "bt", "where":
		return d.cmdBacktrace(args)
	case "list", "l":
		return d.cmdList(args)

	// State modification
	case "set":
		return d.cmdSet(args)

	// Program control
	case "load":
		return d.cmdLoad(args)
	case "reset":
		return d.cmdReset(args)

	// Help
	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// currentBindings returns a safe empty snapshot before execution has
// started, and the interpreter's live variables afterwards.
func (d *Debugger) currentBindings() map[string]interp.Value {
	if d.interp == nil {
		return map[string]interp.Value{}
	}
	return d.interp.Snapshot()
}

// sortedVariableNames returns the live variable names, sorted, for
// display commands.
func (d *Debugger) sortedVariableNames() []string {
	bindings := d.currentBindings()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// startExecution launches the interpreter on its own goroutine in the
// given step mode, then blocks until it either pauses or finishes.
func (d *Debugger) startExecution(mode StepMode) {
	d.resume = make(chan struct{})
	d.paused = make(chan pauseEvent, 1)
	d.done = make(chan error, 1)

	d.interp = interp.NewInterpreter(d.program, &debuggerIO{d: d}, d.fc)
	d.interp.SetStepHook(d.hook)

	d.StepMode = mode
	d.Running = true
	d.started = true
	d.lastRunErr = nil

	go func() {
		d.done <- d.interp.Run()
	}()

	d.advance()
}

// resumeExecution lets the paused goroutine continue in the given step
// mode, then blocks until it pauses again or finishes.
func (d *Debugger) resumeExecution(mode StepMode) {
	d.StepMode = mode
	d.resume <- struct{}{}
	d.advance()
}

// advance waits for the running interpreter to either hit the next
// pause point or finish, and reports the outcome to the output buffer.
func (d *Debugger) advance() {
	select {
	case ev := <-d.paused:
		d.Running = true
		if pos, ok := d.fc.DecodeOffset(ev.pos.Start); ok {
			d.Printf("Paused at line %d (%s)\n", pos.Row, ev.reason)
		} else {
			d.Printf("Paused (%s)\n", ev.reason)
		}
	case err := <-d.done:
		d.Running = false
		d.started = false
		d.lastRunErr = err
		if err != nil {
			d.Printf("Program error: %v\n", err)
		} else {
			d.Println("Program finished")
		}
	}
}

// LastRunError returns the error the most recent run finished with, if
// any. It is cleared by LoadProgram and by the next startExecution.
func (d *Debugger) LastRunError() error {
	return d.lastRunErr
}

// hook is the interpreter's StepHook: it runs synchronously on the
// interpreter's goroutine, pausing there (by blocking on resume) every
// time shouldBreak says execution should stop.
func (d *Debugger) hook(swp parser.StatementWithPos) {
	d.current = swp
	d.hasCurrent = true

	should, reason := d.shouldBreak(swp)
	if !should {
		return
	}

	d.paused <- pauseEvent{pos: swp, reason: reason}
	<-d.resume
}

// shouldBreak decides whether execution should pause before swp runs.
func (d *Debugger) shouldBreak(swp parser.StatementWithPos) (bool, string) {
	select {
	case <-d.pauseRequested:
		return true, "paused"
	default:
	}

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"

	case StepOver:
		if swp.Start >= d.stepOverTarget {
			d.StepMode = StepNone
			return true, "step over complete"
		}
		return false, ""

	case StepOut:
		if swp.Start >= d.stepOverTarget {
			d.StepMode = StepNone
			return true, "step out complete"
		}
		return false, ""
	}

	if bp := d.Breakpoints.GetBreakpoint(swp.Start); bp != nil && bp.Enabled {
		bindings := d.currentBindings()

		if bp.Condition != "" {
			result, err := d.Evaluator.Evaluate(bp.Condition, bindings)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				return false, ""
			}
		}

		hit := d.Breakpoints.ProcessHit(swp.Start)
		return true, fmt.Sprintf("breakpoint %d", hit.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.Evaluator, d.currentBindings()); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// Variables returns a snapshot of the live variable bindings. Safe to
// call at any time; returns an empty map before execution has started.
func (d *Debugger) Variables() map[string]interp.Value {
	return d.currentBindings()
}

// IsStarted reports whether an interpreter run has been launched.
func (d *Debugger) IsStarted() bool {
	return d.started
}

// CurrentLine returns the 1-based source line of the statement that is
// about to run, if execution has reached one yet.
func (d *Debugger) CurrentLine() (int, bool) {
	if !d.hasCurrent || d.fc == nil {
		return 0, false
	}
	pos, ok := d.fc.DecodeOffset(d.current.Start)
	if !ok {
		return 0, false
	}
	return pos.Row, true
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}

// parseProgram parses and type-checks source, for use by cmdLoad.
func parseProgram(name, source string) (*parser.Program, *diag.FileContext, error) {
	program, errs := parser.ParseSource(source)
	fc := diag.NewFileContext(name, source)
	if errs.HasErrors() {
		return nil, fc, errs
	}
	if _, typeErr := semantic.Check(program); typeErr != nil {
		return nil, fc, typeErr
	}
	return program, fc, nil
}

// loadSource resolves path through the shared loader and parses it,
// for use by cmdLoad.
func loadSource(path string) (*parser.Program, *diag.FileContext, string, error) {
	src, err := loader.Load(path)
	if err != nil {
		return nil, nil, "", err
	}
	program, fc, err := parseProgram(src.Name, src.Text)
	if err != nil {
		return nil, nil, src.Name, err
	}
	return program, fc, src.Name, nil
}
