package state

import (
	"maps"
	"slices"
)

// Field names used in ErrFieldNotSet context.
const (
	FieldLastArtifact = "last_artifact"
	FieldFlag         = "flag"
)

// DefaultWorkDir is returned by WorkDir when none was set.
const DefaultWorkDir = "."

// State is the mutable build context of one session.
type State struct {
	lastArtifact    string
	hasLastArtifact bool
	workDir         string
	artifacts       []string
	flags           map[string]string
}

// New creates an empty build context rooted at workDir ("" means DefaultWorkDir).
func New(workDir string) *State {
	return &State{
		workDir: workDir,
		flags:   make(map[string]string),
	}
}

// LastArtifact returns the path of the most recent artifact.
func (s *State) LastArtifact() (string, error) {
	if !s.hasLastArtifact {
		return "", ErrFieldNotSet.WithContext("field", FieldLastArtifact)
	}
	return s.lastArtifact, nil
}

// SetLastArtifact records path as the most recent artifact.
func (s *State) SetLastArtifact(path string) {
	s.lastArtifact = path
	s.hasLastArtifact = true
}

// AppendArtifact records path as produced and makes it the last artifact.
func (s *State) AppendArtifact(path string) {
	s.artifacts = append(s.artifacts, path)
	s.SetLastArtifact(path)
}

// Artifacts returns a copy of the artifact history, oldest first.
func (s *State) Artifacts() []string {
	if len(s.artifacts) == 0 {
		return []string{}
	}
	return slices.Clone(s.artifacts)
}

// ClearArtifacts forgets the artifact history and the last artifact.
func (s *State) ClearArtifacts() {
	s.artifacts = nil
	s.lastArtifact = ""
	s.hasLastArtifact = false
}

// WorkDir returns the working directory, DefaultWorkDir when unset.
func (s *State) WorkDir() string {
	if s.workDir == "" {
		return DefaultWorkDir
	}
	return s.workDir
}

// SetWorkDir overwrites the working directory.
func (s *State) SetWorkDir(dir string) {
	s.workDir = dir
}

// Flag returns the value of a session flag.
func (s *State) Flag(name string) (string, error) {
	v, ok := s.flags[name]
	if !ok {
		return "", ErrFieldNotSet.WithContext("field", FieldFlag).WithContext("flag", name)
	}
	return v, nil
}

// SetFlag sets or overwrites a session flag.
func (s *State) SetFlag(name, value string) {
	if s.flags == nil {
		s.flags = make(map[string]string)
	}
	s.flags[name] = value
}

// UnsetFlag removes a flag and reports whether it was present.
func (s *State) UnsetFlag(name string) bool {
	if _, ok := s.flags[name]; !ok {
		return false
	}
	delete(s.flags, name)
	return true
}

// Flags returns a copy of all session flags.
func (s *State) Flags() map[string]string {
	return maps.Clone(s.flags)
}

// Reset returns the context to its freshly created form, keeping nothing.
func (s *State) Reset() {
	*s = State{flags: make(map[string]string)}
}
