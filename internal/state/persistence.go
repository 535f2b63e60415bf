package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultStateDir is the directory under $HOME for state files
	DefaultStateDir = ".local/state/webdesk"
	// DefaultStateFile is the session file name
	DefaultStateFile = "session.json"
)

// GetStatePath returns the full path to the session file
func GetStatePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultStateDir, DefaultStateFile)
}

// LoadSession loads the session from the default path
func LoadSession() (*Session, error) {
	return LoadSessionFrom(GetStatePath())
}

// LoadSessionFrom loads a session from a specific path, returning an empty
// session if the file doesn't exist
func LoadSessionFrom(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSession(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if s.Version > StateVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported %d", s.Version, StateVersion)
	}
	s.Version = StateVersion

	if s.Windows == nil {
		s.Windows = make([]WindowState, 0)
	}
	if s.Closed == nil {
		s.Closed = make([]ClosedState, 0)
	}

	return &s, nil
}

// Save persists the session to the default path
func (s *Session) Save() error {
	return s.SaveTo(GetStatePath())
}

// SaveTo persists the session to a specific path
func (s *Session) SaveTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastUpdated = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// temp file + rename keeps the previous session readable on failure
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// ResetAt clears the session and saves it to path
func (s *Session) ResetAt(path string) error {
	s.Clear()
	return s.SaveTo(path)
}
