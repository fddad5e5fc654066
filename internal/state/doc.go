// Package state holds the build context shared by every command of a session.
//
// A State is a plain data holder: typed accessors, no business logic. It is
// created once per session, passed by pointer to the command being executed,
// and never stored in a package-level variable so independent sessions (and
// tests) stay isolated.
//
// Snapshots give a canonical, comparable and persistable view of a State.
package state
