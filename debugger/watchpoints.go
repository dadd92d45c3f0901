package debugger

import (
	"fmt"
	"sync"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Watchpoint fires when Expression's value changes, or (for conditions that
// read as a boolean, e.g. "r3 != 0") transitions from false to true.
type Watchpoint struct {
	ID         int
	Expression string
	Enabled    bool
	LastValue  int64
	HitCount   int
}

// WatchpointManager manages all watchpoints
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{
		watchpoints: make(map[int]*Watchpoint),
		nextID:      1,
	}
}

// AddWatchpoint registers a new watchpoint on expression. The caller must
// call InitializeWatchpoint once before the first CheckWatchpoints so the
// initial value doesn't read as a spurious change.
func (wm *WatchpointManager) AddWatchpoint(expression string) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp := &Watchpoint{ID: wm.nextID, Expression: expression, Enabled: true}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

func (wm *WatchpointManager) DeleteWatchpoint(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

func (wm *WatchpointManager) EnableWatchpoint(id int) error {
	return wm.setEnabled(id, true)
}

func (wm *WatchpointManager) DisableWatchpoint(id int) error {
	return wm.setEnabled(id, false)
}

func (wm *WatchpointManager) setEnabled(id int, enabled bool) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	wp.Enabled = enabled
	return nil
}

func (wm *WatchpointManager) GetWatchpoint(id int) *Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.watchpoints[id]
}

func (wm *WatchpointManager) GetAllWatchpoints() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		result = append(result, wp)
	}
	return result
}

// CheckWatchpoints re-evaluates every enabled watchpoint's expression and
// returns the first whose value changed since the last check.
func (wm *WatchpointManager) CheckWatchpoints(machine *vm.VM, eval *ExpressionEvaluator, symbols map[string]int64) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}
		current, err := eval.EvaluateExpression(wp.Expression, machine, symbols)
		if err != nil {
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

// InitializeWatchpoint seeds a watchpoint's baseline value.
func (wm *WatchpointManager) InitializeWatchpoint(id int, machine *vm.VM, eval *ExpressionEvaluator, symbols map[string]int64) error {
	wm.mu.Lock()
	wp, exists := wm.watchpoints[id]
	wm.mu.Unlock()
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}

	value, err := eval.EvaluateExpression(wp.Expression, machine, symbols)
	if err != nil {
		return fmt.Errorf("failed to initialize watchpoint: %w", err)
	}

	wm.mu.Lock()
	wp.LastValue = value
	wm.mu.Unlock()
	return nil
}

func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watchpoints = make(map[int]*Watchpoint)
}

func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchpoints)
}
