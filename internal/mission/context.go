package mission

import (
	"log/slog"
	"sync"
)

// NoMission is the name reported before any mission is selected.
const NoMission = "No mission loaded"

// Context holds the mission currently being scored and its run ID.
// Log records pick both up through Attrs.
type Context struct {
	mu    sync.RWMutex
	name  string
	runID string
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{name: NoMission}
}

// GetMission returns the current mission name
func (mc *Context) GetMission() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.name
}

// GetRunID returns the current run ID, empty between runs
func (mc *Context) GetRunID() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.runID
}

// SetMission sets the current mission and run ID
func (mc *Context) SetMission(name, runID string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.name = name
	mc.runID = runID
}

// Clear resets the context once a run is done
func (mc *Context) Clear() {
	mc.SetMission(NoMission, "")
}

// Attrs returns the context as log attributes. The run attribute is
// omitted while no run is active.
func (mc *Context) Attrs() []slog.Attr {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	attrs := []slog.Attr{slog.String("mission", mc.name)}
	if mc.runID != "" {
		attrs = append(attrs, slog.String("run", mc.runID))
	}
	return attrs
}
