package debugger

import (
	"fmt"
	"sync"

	"github.com/paavohuhtala/minipl-go/interp"
)

// WatchType represents the type of watchpoint.
// NOTE: the interpreter only exposes a snapshot of the current variable
// bindings, not individual read/write events, so every watchpoint type
// triggers on the same condition - the watched expression's value
// differing from what it was the last time it was checked.
type WatchType int

const (
	WatchWrite     WatchType = iota // trigger on write (currently same as WatchReadWrite)
	WatchRead                       // trigger on read (currently same as WatchReadWrite)
	WatchReadWrite                  // trigger on read or write (value change detection)
)

// Watchpoint represents a watchpoint on a debugger expression, most often
// a single variable name.
type Watchpoint struct {
	ID         int
	Type       WatchType
	Expression string
	Enabled    bool
	LastValue  interp.Value
	HitCount   int
}

// WatchpointManager manages all watchpoints for one debugging session.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager creates a new watchpoint manager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{
		watchpoints: make(map[int]*Watchpoint),
		nextID:      1,
	}
}

// AddWatchpoint adds a new watchpoint on expression.
func (wm *WatchpointManager) AddWatchpoint(wpType WatchType, expression string) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp := &Watchpoint{
		ID:         wm.nextID,
		Type:       wpType,
		Expression: expression,
		Enabled:    true,
	}

	wm.watchpoints[wp.ID] = wp
	wm.nextID++

	return wp
}

// DeleteWatchpoint removes a watchpoint by ID.
func (wm *WatchpointManager) DeleteWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	delete(wm.watchpoints, id)
	return nil
}

// EnableWatchpoint enables a watchpoint by ID.
func (wm *WatchpointManager) EnableWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	wp.Enabled = true
	return nil
}

// DisableWatchpoint disables a watchpoint by ID.
func (wm *WatchpointManager) DisableWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	wp.Enabled = false
	return nil
}

// GetWatchpoint gets a watchpoint by ID.
func (wm *WatchpointManager) GetWatchpoint(id int) *Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	return wm.watchpoints[id]
}

// GetAllWatchpoints returns all watchpoints.
func (wm *WatchpointManager) GetAllWatchpoints() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		result = append(result, wp)
	}

	return result
}

// CheckWatchpoints re-evaluates every enabled watchpoint's expression
// against bindings and returns the first one whose value has changed
// since the last check.
// NOTE: Type is currently not enforced - all watchpoint types trigger on
// the same value-change condition, see the WatchType doc comment.
func (wm *WatchpointManager) CheckWatchpoints(eval *ExpressionEvaluator, bindings map[string]interp.Value) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}

		current, err := eval.EvaluateExpression(wp.Expression, bindings)
		if err != nil {
			// Skip if the expression can't be evaluated in the current scope.
			continue
		}

		if current != wp.LastValue {
			wp.HitCount++
			wp.LastValue = current
			return wp, true
		}
	}

	return nil, false
}

// InitializeWatchpoint seeds the last-known value for a watchpoint so the
// first CheckWatchpoints call doesn't spuriously trigger.
func (wm *WatchpointManager) InitializeWatchpoint(id int, eval *ExpressionEvaluator, bindings map[string]interp.Value) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	value, err := eval.EvaluateExpression(wp.Expression, bindings)
	if err != nil {
		return fmt.Errorf("failed to initialize watchpoint: %w", err)
	}
	wp.LastValue = value

	return nil
}

// Clear removes all watchpoints.
func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wm.watchpoints = make(map[int]*Watchpoint)
}

// Count returns the number of watchpoints.
func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	return len(wm.watchpoints)
}
