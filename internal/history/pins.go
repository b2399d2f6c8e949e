package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	pinsFileName = "pins.json"
	pinsVersion  = 1
)

// Pins records which employees are pinned to the top of the home list
type Pins struct {
	Version int      `json:"version"` // For future migration
	UserIDs []string `json:"user_ids"`
}

func (s *Store) pinsPath() string {
	return filepath.Join(s.baseDir, pinsFileName)
}

// loadPins returns an empty set if the file doesn't exist
func (s *Store) loadPins() (*Pins, error) {
	data, err := os.ReadFile(s.pinsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Pins{Version: pinsVersion, UserIDs: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to read pins file: %w", err)
	}

	var pins Pins
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, fmt.Errorf("failed to parse pins file: %w", err)
	}
	return &pins, nil
}

func (s *Store) savePins(pins *Pins) error {
	data, err := json.MarshalIndent(pins, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pins: %w", err)
	}
	if err := os.WriteFile(s.pinsPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write pins file: %w", err)
	}
	return nil
}

// PinnedIDs returns pinned user ids in pin order
func (s *Store) PinnedIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pins, err := s.loadPins()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(pins.UserIDs))
	copy(ids, pins.UserIDs)
	return ids, nil
}

// IsPinned reports whether userID is pinned
func (s *Store) IsPinned(userID string) (bool, error) {
	ids, err := s.PinnedIDs()
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// TogglePin pins or unpins userID and returns the new state
func (s *Store) TogglePin(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins, err := s.loadPins()
	if err != nil {
		return false, err
	}

	for i, id := range pins.UserIDs {
		if id == userID {
			pins.UserIDs = append(pins.UserIDs[:i], pins.UserIDs[i+1:]...)
			return false, s.savePins(pins)
		}
	}

	pins.UserIDs = append(pins.UserIDs, userID)
	return true, s.savePins(pins)
}
