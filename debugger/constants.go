package debugger

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency is a statement-hook count for throttling TUI
	// redraws during continuous execution. No code in this package reads
	// it.
	DisplayUpdateFrequency = 100
)

// Source View Context Constants
const (
	// SourceContextLinesBefore is the number of lines to show before the
	// current statement in the full source view.
	SourceContextLinesBefore = 10

	// SourceContextLinesAfter is the number of lines to show after the
	// current statement in the full source view.
	SourceContextLinesAfter = 20

	// SourceContextLinesBeforeCompact is the number of lines to show
	// before the current statement in compact (CLI "list") views.
	SourceContextLinesBeforeCompact = 2

	// SourceContextLinesAfterCompact is the number of lines to show
	// after the current statement in compact views.
	SourceContextLinesAfterCompact = 5
)

// Variable Panel Constants
const (
	// VariablePanelRows is the fixed height of the variables view panel.
	VariablePanelRows = 10

	// VariableGroupSize is a per-row variable count for a compact
	// variables listing. No code in this package reads it.
	VariableGroupSize = 3
)
