package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface for the debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView      *tview.TextView
	VariablesView   *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a new text user interface over dbg.
func NewTUI(dbg *Debugger) *TUI {
	tui := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}

	tui.initializeViews()
	tui.buildLayout()
	tui.setupKeyBindings()

	return tui
}

// initializeViews creates all the view panels.
func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.VariablesView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.VariablesView.SetBorder(true).SetTitle(" Variables ")

	t.BreakpointsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

// buildLayout constructs the TUI layout.
func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.VariablesView, VariablePanelRows, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

// setupKeyBindings sets up keyboard shortcuts.
func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF10:
			t.executeCommand("next")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

// handleCommand processes command input.
func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

// executeCommand executes a debugger command and refreshes every panel.
func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll refreshes every view panel.
func (t *TUI) RefreshAll() {
	t.UpdateSourceView()
	t.UpdateVariablesView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateSourceView updates the source code view, centered on the
// current statement.
func (t *TUI) UpdateSourceView() {
	t.SourceView.Clear()

	fc := t.Debugger.fc
	if fc == nil || !t.Debugger.hasCurrent {
		t.SourceView.SetText("[yellow]No source loaded[white]")
		return
	}

	pos, ok := fc.DecodeOffset(t.Debugger.current.Start)
	if !ok {
		t.SourceView.SetText("[yellow]No source position for current statement[white]")
		return
	}

	var lines []string
	from := pos.Row - SourceContextLinesBefore
	to := pos.Row + SourceContextLinesAfter
	for row := from; row <= to; row++ {
		if row < 1 || row > fc.LineCount() {
			continue
		}

		marker := "  "
		color := "white"
		if row == pos.Row {
			marker = "->"
			color = "yellow"
		}
		if t.lineHasBreakpoint(row) {
			marker = "* "
		}

		lines = append(lines, fmt.Sprintf("[%s]%s %4d  %s[white]", color, marker, row, fc.GetLine(row)))
	}

	t.SourceView.SetText(strings.Join(lines, "\n"))
}

// lineHasBreakpoint reports whether a breakpoint exists starting on row.
func (t *TUI) lineHasBreakpoint(row int) bool {
	offset, ok := t.Debugger.lineStarts[row]
	if !ok {
		return false
	}
	return t.Debugger.Breakpoints.GetBreakpoint(offset) != nil
}

// UpdateVariablesView updates the live-variables panel.
func (t *TUI) UpdateVariablesView() {
	t.VariablesView.Clear()

	bindings := t.Debugger.currentBindings()
	if len(bindings) == 0 {
		t.VariablesView.SetText("[yellow]No variables[white]")
		return
	}

	var lines []string
	for _, name := range t.Debugger.sortedVariableNames() {
		lines = append(lines, fmt.Sprintf("%s = %s", name, bindings[name].Display()))
	}

	t.VariablesView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView updates the breakpoints and watchpoints view.
func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	var lines []string

	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) > 0 {
		lines = append(lines, "[yellow]Breakpoints:[white]")
		for _, bp := range bps {
			status, color := "enabled", "green"
			if !bp.Enabled {
				status, color = "disabled", "red"
			}

			line := fmt.Sprintf("  %d: [%s]%s[white] offset %d", bp.ID, color, status, bp.Offset)
			if bp.Condition != "" {
				line += fmt.Sprintf(" if %s", bp.Condition)
			}
			line += fmt.Sprintf(" (hits: %d)", bp.HitCount)

			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "[yellow]No breakpoints set[white]")
	}

	lines = append(lines, "")

	wps := t.Debugger.Watchpoints.GetAllWatchpoints()
	if len(wps) > 0 {
		lines = append(lines, "[yellow]Watchpoints:[white]")
		for _, wp := range wps {
			typeStr := "watch"
			if wp.Type == WatchRead {
				typeStr = "rwatch"
			} else if wp.Type == WatchReadWrite {
				typeStr = "awatch"
			}
			lines = append(lines, fmt.Sprintf("  %d: %s %s = %s", wp.ID, typeStr, wp.Expression, wp.LastValue.Display()))
		}
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]MiniPL Debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F10 to step over a loop, F11 to step\n")
	t.WriteOutput("Type 'help' for command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
