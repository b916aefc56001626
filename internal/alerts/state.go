package alerts

import (
	"encoding/json"
	"os"
	"time"
)

// State is the persisted alert history.
type State struct {
	// LastAlert maps "SYMBOL:side" to the time of the last alert sent.
	LastAlert map[string]time.Time `json:"last_alert"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// LoadState reads the alert state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{LastAlert: map[string]time.Time{}}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.LastAlert == nil {
		state.LastAlert = map[string]time.Time{}
	}
	return &state, nil
}

// SaveState writes the alert state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
