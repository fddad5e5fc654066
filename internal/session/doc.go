// Package session wires a command center to its surroundings: the persisted
// build context, the invocation history, outcome publishing and the ways
// input reaches the center (one-shot, scripts, an interactive loop, file
// watching and periodic re-runs).
package session
