package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveFile writes the snapshot of st to path atomically (temp file + rename).
func SaveFile(path string, st *State) error {
	data, err := json.MarshalIndent(st.Snapshot(), "", "  ")
	if err != nil {
		return ErrSnapshotWrite.WithCause(err).WithContext("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrSnapshotWrite.WithCause(err).WithContext("path", path)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return ErrSnapshotWrite.WithCause(err).WithContext("path", path)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return ErrSnapshotWrite.WithCause(err).WithContext("path", path)
	}
	return nil
}

// LoadFile reads a snapshot written by SaveFile into a new State.
// A missing file yields a fresh State rooted at defaultWorkDir.
func LoadFile(path, defaultWorkDir string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(defaultWorkDir), nil
	}
	if err != nil {
		return nil, ErrSnapshotRead.WithCause(err).WithContext("path", path)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrSnapshotRead.WithCause(err).WithContext("path", path)
	}

	st := New(defaultWorkDir)
	st.Restore(snap)
	if snap.WorkDir == "" {
		st.SetWorkDir(defaultWorkDir)
	}
	return st, nil
}
