package service

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/paavohuhtala/minipl-go/config"
	"github.com/paavohuhtala/minipl-go/debugger"
	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/interp"
	"github.com/paavohuhtala/minipl-go/parser"
	"github.com/paavohuhtala/minipl-go/semantic"
)

// Session provides a thread-safe interface to one MiniPL program's
// debugger, shared by the CLI, TUI, and the HTTP/WebSocket API (see
// api.Server). Session owns its own lock because debugger.Debugger
// itself assumes single-threaded use.
type Session struct {
	mu     sync.Mutex
	cfg    *config.Config
	logger *slog.Logger

	dbg         *debugger.Debugger
	name        string
	stdinWriter *io.PipeWriter
}

// NewSession creates an empty session. Call LoadProgram before running
// anything.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: logger}
}

// LoadProgram parses and type-checks source, then installs a fresh
// debugger over it. Any program previously loaded into this session,
// and its breakpoints and watchpoints, are discarded.
func (s *Session) LoadProgram(name, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	program, errs := parser.ParseSource(source)
	fc := diag.NewFileContext(name, source)
	if errs.HasErrors() {
		return errs
	}
	if _, typeErr := semantic.Check(program); typeErr != nil {
		return typeErr
	}

	if s.stdinWriter != nil {
		_ = s.stdinWriter.Close()
	}
	stdinReader, stdinWriter := io.Pipe()
	s.stdinWriter = stdinWriter

	s.name = name
	s.dbg = debugger.NewDebuggerWithStdin(s.cfg, program, fc, stdinReader)
	s.logger.Debug("program loaded", "session", s.name)

	return nil
}

// Run starts the program from the beginning. It blocks until the
// program pauses at a breakpoint or finishes; callers that want to
// return control to an HTTP handler immediately should launch Run in
// its own goroutine, mirroring the teacher's RunUntilHalt dispatch.
func (s *Session) Run() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.ExecuteCommand("run")
}

// Continue resumes a paused program, blocking until it pauses again or
// finishes.
func (s *Session) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.ExecuteCommand("continue")
}

// Step single-steps the program by one statement.
func (s *Session) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.ExecuteCommand("step")
}

// Pause asks a freely running program to stop at its next statement.
// Safe to call while Run or Continue is blocked on another goroutine.
func (s *Session) Pause() error {
	s.mu.Lock()
	dbg := s.dbg
	s.mu.Unlock()

	if dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	dbg.RequestPause()
	return nil
}

// Reset reloads the currently loaded program from scratch, clearing
// execution state but keeping breakpoints and watchpoints.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.ExecuteCommand("reset")
}

// ExecutionState reports the session's current state. Because every
// Session method that drives execution blocks until the program pauses
// or finishes, by the time a caller can observe this state the program
// is never mid-step: it is either paused at a breakpoint, finished, or
// finished with an error.
func (s *Session) ExecutionState() ExecutionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return StateHalted
	}
	if s.dbg.IsStarted() {
		return StateBreakpoint
	}
	if s.dbg.LastRunError() != nil {
		return StateError
	}
	return StateHalted
}

// Variables returns the program's live variables, sorted by name.
func (s *Session) Variables() []VariableState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return nil
	}

	bindings := s.dbg.Variables()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]VariableState, 0, len(names))
	for _, name := range names {
		v := bindings[name]
		out = append(out, VariableState{
			Name:  name,
			Kind:  kindName(v),
			Value: v.Display(),
		})
	}
	return out
}

func kindName(v interp.Value) string {
	switch v.Kind {
	case interp.KindInt:
		return "int"
	case interp.KindBool:
		return "bool"
	default:
		return "string"
	}
}

// CurrentLine returns the 1-based source line the program is paused
// on, if any.
func (s *Session) CurrentLine() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return 0, false
	}
	return s.dbg.CurrentLine()
}

// AddBreakpoint sets a breakpoint at a line number or "offset:N" spec.
func (s *Session) AddBreakpoint(location, condition string) (*debugger.Breakpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return nil, fmt.Errorf("no program loaded")
	}
	offset, err := s.dbg.ResolveLocation(location)
	if err != nil {
		return nil, err
	}
	return s.dbg.Breakpoints.AddBreakpoint(offset, false, condition), nil
}

// RemoveBreakpoint deletes a breakpoint by ID.
func (s *Session) RemoveBreakpoint(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.Breakpoints.DeleteBreakpoint(id)
}

// Breakpoints returns every breakpoint set in this session.
func (s *Session) Breakpoints() []BreakpointInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return nil
	}

	bps := s.dbg.Breakpoints.GetAllBreakpoints()
	out := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		out[i] = BreakpointInfo{
			ID:        bp.ID,
			Offset:    bp.Offset,
			Enabled:   bp.Enabled,
			Condition: bp.Condition,
			HitCount:  bp.HitCount,
		}
	}
	return out
}

// AddWatchpoint adds a watchpoint over a MiniPL expression.
func (s *Session) AddWatchpoint(watchType, expression string) (*debugger.Watchpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return nil, fmt.Errorf("no program loaded")
	}

	var wpType debugger.WatchType
	switch watchType {
	case "read":
		wpType = debugger.WatchRead
	case "write":
		wpType = debugger.WatchWrite
	case "readwrite":
		wpType = debugger.WatchReadWrite
	default:
		return nil, fmt.Errorf("invalid watchpoint type: %s", watchType)
	}

	wp := s.dbg.Watchpoints.AddWatchpoint(wpType, expression)
	if err := s.dbg.Watchpoints.InitializeWatchpoint(wp.ID, s.dbg.Evaluator, s.dbg.Variables()); err != nil {
		s.logger.Debug("watchpoint initial evaluation failed", "expression", expression, "err", err)
	}
	return wp, nil
}

// RemoveWatchpoint deletes a watchpoint by ID.
func (s *Session) RemoveWatchpoint(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return fmt.Errorf("no program loaded")
	}
	return s.dbg.Watchpoints.DeleteWatchpoint(id)
}

// Watchpoints returns every watchpoint set in this session.
func (s *Session) Watchpoints() []WatchpointInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return nil
	}

	wps := s.dbg.Watchpoints.GetAllWatchpoints()
	out := make([]WatchpointInfo, len(wps))
	for i, wp := range wps {
		var typeStr string
		switch wp.Type {
		case debugger.WatchRead:
			typeStr = "read"
		case debugger.WatchWrite:
			typeStr = "write"
		case debugger.WatchReadWrite:
			typeStr = "readwrite"
		}
		out[i] = WatchpointInfo{
			ID:         wp.ID,
			Type:       typeStr,
			Expression: wp.Expression,
			Enabled:    wp.Enabled,
			LastValue:  wp.LastValue.Display(),
		}
	}
	return out
}

// EvaluateExpression evaluates a MiniPL expression against the
// program's current variables.
func (s *Session) EvaluateExpression(expr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return "", fmt.Errorf("no program loaded")
	}
	v, err := s.dbg.Evaluator.EvaluateExpression(expr, s.dbg.Variables())
	if err != nil {
		return "", err
	}
	return v.Display(), nil
}

// GetOutput returns and clears the program's accumulated output.
func (s *Session) GetOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbg == nil {
		return ""
	}
	return s.dbg.GetOutput()
}

// SendInput writes a line of input to the guest program's stdin. If the
// program is not currently waiting for input, the write blocks until it
// is (io.Pipe has no internal buffer), so callers should send input
// from its own goroutine.
func (s *Session) SendInput(line string) error {
	s.mu.Lock()
	w := s.stdinWriter
	s.mu.Unlock()

	if w == nil {
		return fmt.Errorf("no program loaded")
	}
	_, err := w.Write([]byte(line + "\n"))
	return err
}

// Close releases the session's stdin pipe.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdinWriter != nil {
		return s.stdinWriter.Close()
	}
	return nil
}
