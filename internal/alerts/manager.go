package alerts

import (
	"log"
	"strings"
	"sync"
	"time"

	"SwingScanner/internal/model"
)

// Manager de-duplicates alerts per symbol and side within a cooldown window.
// An empty file path keeps the state in memory only.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
	cooldown time.Duration
	now      func() time.Time
}

// NewManager creates a Manager, loading existing state from disk.
func NewManager(filePath string, cooldown time.Duration) (*Manager, error) {
	state := &State{LastAlert: map[string]time.Time{}}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, err
		}
	}
	return &Manager{state: state, filePath: filePath, cooldown: cooldown, now: time.Now}, nil
}

func key(symbol string, side model.Side) string {
	return strings.ToUpper(symbol) + ":" + string(side)
}

// ShouldAlert reports whether no alert for symbol and side was sent within the cooldown.
func (m *Manager) ShouldAlert(symbol string, side model.Side) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.state.LastAlert[key(symbol, side)]
	return !ok || m.now().Sub(last) >= m.cooldown
}

// MarkAlerted records an alert for symbol and side at the current time.
func (m *Manager) MarkAlerted(symbol string, side model.Side) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastAlert[key(symbol, side)] = m.now()
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save alert state: %v", err)
	}
}

// Prune drops entries older than the cooldown and returns how many were removed.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, t := range m.state.LastAlert {
		if now.Sub(t) >= m.cooldown {
			delete(m.state.LastAlert, k)
			removed++
		}
	}
	if removed > 0 {
		if err := m.save(); err != nil {
			log.Printf("[ERROR] failed to save alert state after prune: %v", err)
		}
	}
	return removed
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
