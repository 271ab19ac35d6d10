package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paavohuhtala/minipl-go/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.DefaultConfig(), nil, 0)
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec := getJSON(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServer_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	createRec := postJSON(t, srv, "/api/v1/session", nil)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, body = %s", createRec.Code, createRec.Body.String())
	}
	var created SessionCreateResponse
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("expected a non-empty session ID")
	}

	loadRec := postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/load", LoadProgramRequest{
		Source: "var x : int := 41;\nprint x + 1;\n",
	})
	if loadRec.Code != http.StatusOK {
		t.Fatalf("load status = %d, body = %s", loadRec.Code, loadRec.Body.String())
	}
	var loaded LoadProgramResponse
	if err := json.Unmarshal(loadRec.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode load response: %v", err)
	}
	if !loaded.Success {
		t.Fatalf("expected load to succeed, errors = %v", loaded.Errors)
	}

	runRec := postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/run", nil)
	if runRec.Code != http.StatusOK {
		t.Fatalf("run status = %d, body = %s", runRec.Code, runRec.Body.String())
	}

	consoleRec := getJSON(t, srv, "/api/v1/session/"+created.SessionID+"/console")
	var console ConsoleResponse
	if err := json.Unmarshal(consoleRec.Body.Bytes(), &console); err != nil {
		t.Fatalf("decode console response: %v", err)
	}
	if console.Output != "42" {
		t.Errorf("console output = %q, want %q", console.Output, "42")
	}

	destroyReq := httptest.NewRequest(http.MethodDelete, "/api/v1/session/"+created.SessionID, nil)
	destroyRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(destroyRec, destroyReq)
	if destroyRec.Code != http.StatusOK {
		t.Fatalf("destroy status = %d", destroyRec.Code)
	}
}

func TestServer_BreakpointAndEvaluate(t *testing.T) {
	srv := newTestServer(t)

	createRec := postJSON(t, srv, "/api/v1/session", nil)
	var created SessionCreateResponse
	_ = json.Unmarshal(createRec.Body.Bytes(), &created)

	postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/load", LoadProgramRequest{
		Source: "var x : int := 7;\nprint x;\n",
	})

	bpRec := postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/breakpoint", BreakpointRequest{Location: "2"})
	if bpRec.Code != http.StatusCreated {
		t.Fatalf("breakpoint status = %d, body = %s", bpRec.Code, bpRec.Body.String())
	}

	postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/run", nil)

	evalRec := postJSON(t, srv, "/api/v1/session/"+created.SessionID+"/evaluate", EvaluateRequest{Expression: "x + 1"})
	if evalRec.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d, body = %s", evalRec.Code, evalRec.Body.String())
	}
	var result EvaluateResponse
	_ = json.Unmarshal(evalRec.Body.Bytes(), &result)
	if result.Value != "8" {
		t.Errorf("evaluate result = %q, want %q", result.Value, "8")
	}
}

func TestServer_UnknownSession(t *testing.T) {
	srv := newTestServer(t)
	rec := getJSON(t, srv, "/api/v1/session/deadbeef")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestServer_RejectsRemoteOrigin(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for a non-localhost origin")
	}
}
