package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/paavohuhtala/minipl-go/config"
	"github.com/paavohuhtala/minipl-go/service"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session wraps a service.Session with the bookkeeping the API layer
// needs (an ID and a creation time) to hand it out over HTTP.
type Session struct {
	ID        string
	Service   *service.Session
	CreatedAt time.Time
}

// SessionManager manages the set of active execution sessions.
type SessionManager struct {
	cfg         *config.Config
	logger      *slog.Logger
	broadcaster *Broadcaster
	sessions    map[string]*Session
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg *config.Config, logger *slog.Logger, broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		cfg:         cfg,
		logger:      logger,
		broadcaster: broadcaster,
		sessions:    make(map[string]*Session),
	}
}

// CreateSession creates a new, empty session with a unique ID.
func (sm *SessionManager) CreateSession() (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	svc := service.NewSession(sm.cfg, sm.logger.With("session", sessionID))

	session := &Session{
		ID:        sessionID,
		Service:   svc,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID, releasing its resources.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return ErrSessionNotFound
	}

	if session.Service != nil {
		_ = session.Service.Close()
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns the IDs of all active sessions.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
