package debugger

import (
	"testing"

	"github.com/paavohuhtala/minipl-go/interp"
)

func TestWatchpointManager_AddWatchpoint(t *testing.T) {
	wm := NewWatchpointManager()

	wp := wm.AddWatchpoint(WatchWrite, "x")

	if wp == nil {
		t.Fatal("AddWatchpoint returned nil")
	}

	if wp.ID != 1 {
		t.Errorf("Expected ID 1, got %d", wp.ID)
	}

	if wp.Type != WatchWrite {
		t.Errorf("Wrong watchpoint type: got %d, want %d", wp.Type, WatchWrite)
	}

	if wp.Expression != "x" {
		t.Errorf("Expression = %s, want x", wp.Expression)
	}

	if !wp.Enabled {
		t.Error("Watchpoint should be enabled by default")
	}

	if wp.HitCount != 0 {
		t.Errorf("Initial hit count should be 0, got %d", wp.HitCount)
	}
}

func TestWatchpointManager_AddMultiple(t *testing.T) {
	wm := NewWatchpointManager()

	wp1 := wm.AddWatchpoint(WatchWrite, "x")
	wp2 := wm.AddWatchpoint(WatchRead, "y + 1")

	if wp1.ID == wp2.ID {
		t.Error("Watchpoint IDs should be unique")
	}

	if wm.Count() != 2 {
		t.Errorf("Expected 2 watchpoints, got %d", wm.Count())
	}
}

func TestWatchpointManager_DeleteWatchpoint(t *testing.T) {
	wm := NewWatchpointManager()

	wp := wm.AddWatchpoint(WatchWrite, "x")

	err := wm.DeleteWatchpoint(wp.ID)
	if err != nil {
		t.Fatalf("DeleteWatchpoint failed: %v", err)
	}

	if wm.GetWatchpoint(wp.ID) != nil {
		t.Error("Watchpoint not deleted")
	}

	// Try to delete non-existent watchpoint
	err = wm.DeleteWatchpoint(999)
	if err == nil {
		t.Error("Expected error when deleting non-existent watchpoint")
	}
}

func TestWatchpointManager_EnableDisable(t *testing.T) {
	wm := NewWatchpointManager()

	wp := wm.AddWatchpoint(WatchWrite, "x")

	// Disable
	err := wm.DisableWatchpoint(wp.ID)
	if err != nil {
		t.Fatalf("DisableWatchpoint failed: %v", err)
	}

	if wp.Enabled {
		t.Error("Watchpoint not disabled")
	}

	// Enable
	err = wm.EnableWatchpoint(wp.ID)
	if err != nil {
		t.Fatalf("EnableWatchpoint failed: %v", err)
	}

	if !wp.Enabled {
		t.Error("Watchpoint not enabled")
	}
}

func TestWatchpointManager_CheckWatchpoints_Variable(t *testing.T) {
	wm := NewWatchpointManager()
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{"x": interp.IntValue(100)}

	wp := wm.AddWatchpoint(WatchWrite, "x")

	if err := wm.InitializeWatchpoint(wp.ID, eval, bindings); err != nil {
		t.Fatalf("InitializeWatchpoint failed: %v", err)
	}

	if wp.LastValue != interp.IntValue(100) {
		t.Errorf("LastValue = %v, want 100", wp.LastValue)
	}

	// No change
	triggered, changed := wm.CheckWatchpoints(eval, bindings)
	if triggered != nil || changed {
		t.Error("Should not trigger when value hasn't changed")
	}

	// Change value
	bindings = map[string]interp.Value{"x": interp.IntValue(200)}
	triggered, changed = wm.CheckWatchpoints(eval, bindings)
	if triggered == nil || !changed {
		t.Fatal("Should trigger when value changes")
	}

	if triggered.ID != wp.ID {
		t.Errorf("Wrong watchpoint triggered: got %d, want %d", triggered.ID, wp.ID)
	}

	if wp.HitCount != 1 {
		t.Errorf("Hit count = %d, want 1", wp.HitCount)
	}

	if wp.LastValue != interp.IntValue(200) {
		t.Errorf("LastValue not updated: got %v, want 200", wp.LastValue)
	}
}

func TestWatchpointManager_CheckWatchpoints_Expression(t *testing.T) {
	wm := NewWatchpointManager()
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{"count": interp.IntValue(1)}

	wp := wm.AddWatchpoint(WatchWrite, "count * 2")

	if err := wm.InitializeWatchpoint(wp.ID, eval, bindings); err != nil {
		t.Fatalf("InitializeWatchpoint failed: %v", err)
	}

	// No change
	triggered, changed := wm.CheckWatchpoints(eval, bindings)
	if triggered != nil || changed {
		t.Error("Should not trigger when value hasn't changed")
	}

	// Change value
	bindings = map[string]interp.Value{"count": interp.IntValue(5)}
	triggered, changed = wm.CheckWatchpoints(eval, bindings)
	if triggered == nil || !changed {
		t.Fatal("Should trigger when value changes")
	}

	if triggered.ID != wp.ID {
		t.Errorf("Wrong watchpoint triggered: got %d, want %d", triggered.ID, wp.ID)
	}
}

func TestWatchpointManager_Disabled(t *testing.T) {
	wm := NewWatchpointManager()
	eval := NewExpressionEvaluator()
	bindings := map[string]interp.Value{"x": interp.IntValue(0)}

	// Add and disable watchpoint
	wp := wm.AddWatchpoint(WatchWrite, "x")
	wm.InitializeWatchpoint(wp.ID, eval, bindings)
	wm.DisableWatchpoint(wp.ID)

	// Change value
	bindings = map[string]interp.Value{"x": interp.IntValue(100)}

	// Should not trigger
	triggered, _ := wm.CheckWatchpoints(eval, bindings)
	if triggered != nil {
		t.Error("Disabled watchpoint should not trigger")
	}
}

func TestWatchpointManager_GetAllWatchpoints(t *testing.T) {
	wm := NewWatchpointManager()

	wm.AddWatchpoint(WatchWrite, "x")
	wm.AddWatchpoint(WatchRead, "y")
	wm.AddWatchpoint(WatchReadWrite, "z + 1")

	all := wm.GetAllWatchpoints()

	if len(all) != 3 {
		t.Errorf("Expected 3 watchpoints, got %d", len(all))
	}
}

func TestWatchpointManager_Clear(t *testing.T) {
	wm := NewWatchpointManager()

	wm.AddWatchpoint(WatchWrite, "x")
	wm.AddWatchpoint(WatchRead, "y")

	wm.Clear()

	if wm.Count() != 0 {
		t.Errorf("Expected 0 watchpoints after clear, got %d", wm.Count())
	}
}

func TestWatchpoint_Types(t *testing.T) {
	wm := NewWatchpointManager()

	wpWrite := wm.AddWatchpoint(WatchWrite, "x")
	wpRead := wm.AddWatchpoint(WatchRead, "y")
	wpAccess := wm.AddWatchpoint(WatchReadWrite, "z")

	if wpWrite.Type != WatchWrite {
		t.Error("Wrong type for write watchpoint")
	}

	if wpRead.Type != WatchRead {
		t.Error("Wrong type for read watchpoint")
	}

	if wpAccess.Type != WatchReadWrite {
		t.Error("Wrong type for access watchpoint")
	}
}
