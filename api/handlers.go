package api

import (
	"errors"
	"net/http"

	"github.com/paavohuhtala/minipl-go/service"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.CreateSession()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": s.sessions.ListSessions(),
	})
}

func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}

	resp := SessionStatusResponse{
		SessionID: sessionID,
		State:     string(session.Service.ExecutionState()),
	}
	if line, ok := session.Service.CurrentLine(); ok {
		resp.CurrentLine = line
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}

	var req LoadProgramRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = "inline"
	}

	if loadErr := session.Service.LoadProgram(req.Name, req.Source); loadErr != nil {
		writeJSON(w, http.StatusOK, LoadProgramResponse{
			Success: false,
			Errors:  []string{loadErr.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, LoadProgramResponse{Success: true})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.driveExecution(w, r, sessionID, func(svc *service.Session) error { return svc.Run() })
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.driveExecution(w, r, sessionID, func(svc *service.Session) error { return svc.Continue() })
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.driveExecution(w, r, sessionID, func(svc *service.Session) error { return svc.Step() })
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.driveExecution(w, r, sessionID, func(svc *service.Session) error { return svc.Reset() })
}

// driveExecution runs one of the session's blocking execution methods and
// broadcasts the resulting output and state over the session's WebSocket
// subscriptions. Because Session's execution methods are synchronous,
// by the time this returns the program is paused, halted, or errored —
// never still running — so one broadcast after the call is enough to
// keep subscribers in sync with the teacher's continuous, per-instruction
// broadcast loop replaced with a single per-action one.
func (s *Server) driveExecution(w http.ResponseWriter, r *http.Request, sessionID string, action func(*service.Session) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}

	runErr := action(session.Service)

	if output := session.Service.GetOutput(); output != "" {
		s.broadcaster.BroadcastOutput(sessionID, "stdout", output)
	}

	state := session.Service.ExecutionState()
	line, _ := session.Service.CurrentLine()
	s.broadcaster.BroadcastState(sessionID, map[string]interface{}{
		"status": string(state),
		"line":   line,
	})

	if runErr != nil {
		writeError(w, http.StatusBadRequest, runErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID:   sessionID,
		State:       string(state),
		CurrentLine: line,
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	if err := session.Service.Pause(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleGetConsoleOutput(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, ConsoleResponse{Output: session.Service.GetOutput()})
}

func (s *Server) handleGetVariables(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}

	vars := session.Service.Variables()
	out := make([]VariableStateDTO, len(vars))
	for i, v := range vars {
		out[i] = VariableStateDTO{Name: v.Name, Kind: v.Kind, Value: v.Value}
	}
	writeJSON(w, http.StatusOK, VariablesResponse{Variables: out})
}

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	switch r.Method {
	case http.MethodPost:
		session, err := s.getSessionOrError(w, sessionID)
		if err != nil {
			return
		}
		var req BreakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		bp, err := session.Service.AddBreakpoint(req.Location, req.Condition)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, BreakpointResponse{
			ID: bp.ID, Offset: bp.Offset, Enabled: bp.Enabled,
			Condition: bp.Condition, HitCount: bp.HitCount,
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	bps := session.Service.Breakpoints()
	out := make([]BreakpointResponse, len(bps))
	for i, bp := range bps {
		out[i] = BreakpointResponse{
			ID: bp.ID, Offset: bp.Offset, Enabled: bp.Enabled,
			Condition: bp.Condition, HitCount: bp.HitCount,
		}
	}
	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: out})
}

func (s *Server) handleWatchpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	var req WatchpointRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wp, err := session.Service.AddWatchpoint(req.Type, req.Expression)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, WatchpointResponse{
		ID: wp.ID, Type: req.Type, Expression: wp.Expression,
		Enabled: wp.Enabled, LastValue: wp.LastValue.Display(),
	})
}

func (s *Server) handleDeleteWatchpoint(w http.ResponseWriter, r *http.Request, sessionID string, watchpointID int) {
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	if err := session.Service.RemoveWatchpoint(watchpointID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleListWatchpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	wps := session.Service.Watchpoints()
	out := make([]WatchpointResponse, len(wps))
	for i, wp := range wps {
		out[i] = WatchpointResponse{
			ID: wp.ID, Type: wp.Type, Expression: wp.Expression,
			Enabled: wp.Enabled, LastValue: wp.LastValue,
		}
	}
	writeJSON(w, http.StatusOK, WatchpointsResponse{Watchpoints: out})
}

func (s *Server) handleEvaluateExpression(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	var req EvaluateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	value, evalErr := session.Service.EvaluateExpression(req.Expression)
	if evalErr != nil {
		writeError(w, http.StatusBadRequest, evalErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{Value: value})
}

func (s *Server) handleSendStdin(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.getSessionOrError(w, sessionID)
	if err != nil {
		return
	}
	var req StdinRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := session.Service.SendInput(req.Line); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) getSessionOrError(w http.ResponseWriter, sessionID string) (*Session, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, err
	}
	return session, nil
}
