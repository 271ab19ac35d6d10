package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paavohuhtala/minipl-go/parser"
)

// Command handler implementations.

// cmdRun starts execution from the beginning of the program.
func (d *Debugger) cmdRun(args []string) error {
	if d.started {
		return fmt.Errorf("program already started; use 'continue' or 'reset'")
	}

	d.Println("Starting program execution...")
	d.startExecution(StepNone)
	return nil
}

// cmdContinue resumes execution until the next breakpoint, watchpoint,
// or program exit.
func (d *Debugger) cmdContinue(args []string) error {
	if !d.started || !d.Running {
		return fmt.Errorf("program is not running")
	}

	d.Println("Continuing...")
	d.resumeExecution(StepNone)
	return nil
}

// cmdStep pauses again before the very next statement.
func (d *Debugger) cmdStep(args []string) error {
	if !d.started || !d.Running {
		return fmt.Errorf("program is not running")
	}
	d.resumeExecution(StepSingle)
	return nil
}

// cmdNext steps over the current statement; if it is a for-loop, the
// entire loop body runs as one step instead of pausing on every
// iteration.
func (d *Debugger) cmdNext(args []string) error {
	if !d.started || !d.Running {
		return fmt.Errorf("program is not running")
	}

	if fs, ok := d.current.Statement.(*parser.ForStmt); ok && len(fs.Body) > 0 {
		if r, ok := d.rangeStartingAt(fs.Body[0].Start); ok {
			d.stepOverTarget = r.end
			d.resumeExecution(StepOver)
			return nil
		}
	}

	d.resumeExecution(StepSingle)
	return nil
}

// cmdFinish runs until the nearest enclosing for-loop completes.
func (d *Debugger) cmdFinish(args []string) error {
	if !d.started || !d.Running {
		return fmt.Errorf("program is not running")
	}

	r, ok := d.innermostRangeContaining(d.current.Start)
	if !ok {
		return fmt.Errorf("not inside a loop")
	}

	d.stepOverTarget = r.end
	d.resumeExecution(StepOut)
	return nil
}

// cmdBreak sets a breakpoint, optionally conditional.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <line> [if <condition>]")
	}

	offset, err := d.ResolveLocation(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(offset, false, condition)

	if condition != "" {
		d.Printf("Breakpoint %d at line %s (condition: %s)\n", bp.ID, args[0], condition)
	} else {
		d.Printf("Breakpoint %d at line %s\n", bp.ID, args[0])
	}

	return nil
}

// cmdTBreak sets a temporary breakpoint, deleted after its first hit.
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <line>")
	}

	offset, err := d.ResolveLocation(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(offset, true, "")
	d.Printf("Temporary breakpoint %d at line %s\n", bp.ID, args[0])

	return nil
}

// cmdDelete deletes one breakpoint, or every breakpoint if no ID is given.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdEnable enables a breakpoint by ID.
func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

// cmdDisable disables a breakpoint by ID.
func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdWatch sets a write watchpoint on a variable expression.
func (d *Debugger) cmdWatch(args []string) error {
	return d.addWatchpoint(WatchWrite, "Watchpoint", args)
}

// cmdRWatch sets a read watchpoint.
func (d *Debugger) cmdRWatch(args []string) error {
	return d.addWatchpoint(WatchRead, "Read watchpoint", args)
}

// cmdAWatch sets a read/write watchpoint.
func (d *Debugger) cmdAWatch(args []string) error {
	return d.addWatchpoint(WatchReadWrite, "Access watchpoint", args)
}

func (d *Debugger) addWatchpoint(wpType WatchType, label string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <expression>")
	}
	if !d.started {
		return fmt.Errorf("program is not running; watchpoints need live variables")
	}

	expression := strings.Join(args, " ")

	wp := d.Watchpoints.AddWatchpoint(wpType, expression)
	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Evaluator, d.currentBindings()); err != nil {
		d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("%s %d: %s\n", label, wp.ID, expression)
	return nil
}

// cmdPrint evaluates and prints an expression against the current
// variable bindings.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}

	expression := strings.Join(args, " ")
	result, err := d.Evaluator.EvaluateExpression(expression, d.currentBindings())
	if err != nil {
		return err
	}

	d.Printf("$%d = %s\n", d.Evaluator.GetValueNumber(), result.Display())
	return nil
}

// cmdInfo displays information about debugger state.
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <variables|breakpoints|watchpoints>")
	}

	switch strings.ToLower(args[0]) {
	case "variables", "vars", "v":
		return d.showVariables()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

// showVariables displays every live variable, name-sorted.
func (d *Debugger) showVariables() error {
	bindings := d.currentBindings()
	if len(bindings) == 0 {
		d.Println("No variables")
		return nil
	}

	d.Println("Variables:")
	for _, name := range d.sortedVariableNames() {
		d.Printf("  %s = %s\n", name, bindings[name].Display())
	}

	return nil
}

// showBreakpoints displays all breakpoints.
func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}

		condition := ""
		if bp.Condition != "" {
			condition = fmt.Sprintf(" if %s", bp.Condition)
		}

		d.Printf("  %d: offset %d %s%s%s (hit %d times)\n",
			bp.ID, bp.Offset, status, temp, condition, bp.HitCount)
	}

	return nil
}

// showWatchpoints displays all watchpoints.
func (d *Debugger) showWatchpoints() error {
	watchpoints := d.Watchpoints.GetAllWatchpoints()
	if len(watchpoints) == 0 {
		d.Println("No watchpoints")
		return nil
	}

	d.Println("Watchpoints:")
	for _, wp := range watchpoints {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}

		wpType := "write"
		if wp.Type == WatchRead {
			wpType = "read"
		} else if wp.Type == WatchReadWrite {
			wpType = "access"
		}

		d.Printf("  %d: %s %s %s (hit %d times, last value: %s)\n",
			wp.ID, wp.Expression, wpType, status, wp.HitCount, wp.LastValue.Display())
	}

	return nil
}

// cmdBacktrace shows the nesting of for-loops enclosing the current
// statement, MiniPL's closest analogue to a call stack.
func (d *Debugger) cmdBacktrace(args []string) error {
	if !d.hasCurrent {
		return fmt.Errorf("program is not running")
	}

	d.Println("Loop nesting:")
	depth := 0
	for _, r := range d.forRanges {
		if d.current.Start >= r.start && d.current.Start < r.end {
			d.Printf("  #%d  loop spanning offsets [%d, %d)\n", depth, r.start, r.end)
			depth++
		}
	}
	if depth == 0 {
		d.Println("  #0  top level (not inside any loop)")
	}

	return nil
}

// cmdList shows source lines around the current statement.
func (d *Debugger) cmdList(args []string) error {
	if !d.hasCurrent {
		return fmt.Errorf("program is not running")
	}
	if d.fc == nil {
		return fmt.Errorf("no source available")
	}

	pos, ok := d.fc.DecodeOffset(d.current.Start)
	if !ok {
		return fmt.Errorf("current statement has no known source position")
	}

	d.Printf("%s:\n", d.fc.Name())
	from := pos.Row - SourceContextLinesBeforeCompact
	to := pos.Row + SourceContextLinesAfterCompact
	for row := from; row <= to; row++ {
		line := d.fc.GetLine(row)
		if row < 1 || row > d.fc.LineCount() {
			continue
		}
		marker := "  "
		if row == pos.Row {
			marker = "=>"
		}
		d.Printf("%s %4d  %s\n", marker, row, line)
	}

	return nil
}

// cmdSet overwrites a live variable's value.
func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 || args[1] != "=" {
		return fmt.Errorf("usage: set <variable> = <value>")
	}
	if !d.started || d.interp == nil {
		return fmt.Errorf("program is not running")
	}

	name := args[0]
	valueStr := strings.Join(args[2:], " ")

	value, err := d.Evaluator.EvaluateExpression(valueStr, d.currentBindings())
	if err != nil {
		return err
	}

	if err := d.interp.SetVariable(name, value); err != nil {
		return err
	}

	d.Printf("%s set to %s\n", name, value.Display())
	return nil
}

// cmdLoad loads and type-checks a new program, replacing the one
// currently being debugged.
func (d *Debugger) cmdLoad(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <filename>")
	}

	program, fc, name, err := loadSource(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	d.LoadProgram(program, fc)
	d.Printf("Loaded %s\n", name)
	return nil
}

// cmdReset discards the current execution and prepares to run the same
// program again from the start.
func (d *Debugger) cmdReset(args []string) error {
	d.LoadProgram(d.program, d.fc)
	d.Println("Debugger reset")
	return nil
}

// cmdHelp displays general or per-command help.
func (d *Debugger) cmdHelp(args []string) error {
	if len(args) > 0 {
		return d.showCommandHelp(args[0])
	}

	d.Println("MiniPL Debugger Commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)           - Start program execution")
	d.Println("  continue (c)      - Continue execution")
	d.Println("  step (s)          - Execute a single statement")
	d.Println("  next (n)          - Step over a for-loop as one unit")
	d.Println("  finish (fin)      - Run until the enclosing loop completes")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <line>  - Set breakpoint")
	d.Println("  tbreak (tb) <line>- Set temporary breakpoint")
	d.Println("  delete (d) [id]   - Delete breakpoint(s)")
	d.Println("  enable <id>       - Enable breakpoint")
	d.Println("  disable <id>      - Disable breakpoint")
	d.Println()
	d.Println("Watchpoints:")
	d.Println("  watch (w) <expr>  - Watch for writes")
	d.Println("  rwatch <expr>     - Watch for reads")
	d.Println("  awatch <expr>     - Watch for access")
	d.Println()
	d.Println("Inspection:")
	d.Println("  print (p) <expr>  - Evaluate expression")
	d.Println("  info (i) <what>   - Show information")
	d.Println("  backtrace (bt)    - Show enclosing loop nesting")
	d.Println("  list (l)          - List source code")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <var> = <val> - Modify a variable")
	d.Println()
	d.Println("Control:")
	d.Println("  load <file>       - Load a different program")
	d.Println("  reset             - Reset the debugger")
	d.Println("  help (h, ?)       - Show this help")
	d.Println()
	d.Println("Type 'help <command>' for detailed help on a specific command.")

	return nil
}

// showCommandHelp shows detailed help for a specific command.
func (d *Debugger) showCommandHelp(cmd string) error {
	helpText := map[string]string{
		"break": "break <line> [if <condition>]\n  Set a breakpoint at the given source line.\n  Optional condition is evaluated each time the line is reached.",
		"step":  "step\n  Execute a single statement.",
		"next":  "next\n  Step over a for-loop as one unit instead of pausing on every iteration.",
		"print": "print <expression>\n  Evaluate and print an expression over the live variables.",
		"info":  "info <variables|breakpoints|watchpoints>\n  Display information about debugger state.",
	}

	if help, exists := helpText[cmd]; exists {
		d.Println(help)
		return nil
	}

	return fmt.Errorf("no help available for command: %s", cmd)
}
