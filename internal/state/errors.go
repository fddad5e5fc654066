package state

import (
	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
)

var (
	// ErrFieldNotSet indicates a getter was called on a field that has no value and no default.
	ErrFieldNotSet = errors.NotFoundError("build context field not set").Build()

	// ErrSnapshotRead indicates a persisted snapshot could not be read or decoded.
	ErrSnapshotRead = errors.FileSystemError("failed to read state snapshot").Build()

	// ErrSnapshotWrite indicates a snapshot could not be written.
	ErrSnapshotWrite = errors.FileSystemError("failed to write state snapshot").Build()
)
