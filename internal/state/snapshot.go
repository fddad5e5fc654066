package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"maps"
	"slices"
)

// Snapshot is the canonical, serializable form of a State.
type Snapshot struct {
	LastArtifact *string           `json:"last_artifact,omitempty"`
	WorkDir      string            `json:"work_dir"`
	Artifacts    []string          `json:"artifacts"`
	Flags        map[string]string `json:"flags"`
}

// Snapshot captures the current content of the build context.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		WorkDir:   s.workDir,
		Artifacts: s.Artifacts(),
		Flags:     maps.Clone(s.flags),
	}
	if snap.Flags == nil {
		snap.Flags = map[string]string{}
	}
	if s.hasLastArtifact {
		last := s.lastArtifact
		snap.LastArtifact = &last
	}
	return snap
}

// Restore replaces the content of the build context with snap.
func (s *State) Restore(snap Snapshot) {
	s.Reset()
	s.workDir = snap.WorkDir
	s.artifacts = slices.Clone(snap.Artifacts)
	maps.Copy(s.flags, snap.Flags)
	if snap.LastArtifact != nil {
		s.SetLastArtifact(*snap.LastArtifact)
	}
}

// Bytes returns the canonical JSON encoding. Map keys are sorted by
// encoding/json so equal snapshots always encode identically.
func (snap Snapshot) Bytes() []byte {
	data, err := json.Marshal(snap)
	if err != nil {
		// Only strings and string maps are encoded.
		panic(err)
	}
	return data
}

// Equal reports whether the build context is byte-identical to snap.
func (s *State) Equal(snap Snapshot) bool {
	return string(s.Snapshot().Bytes()) == string(snap.Bytes())
}

// Fingerprint returns a stable hex digest of the build context.
func (s *State) Fingerprint() string {
	sum := sha256.Sum256(s.Snapshot().Bytes())
	return hex.EncodeToString(sum[:])
}
