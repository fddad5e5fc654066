package session

import "git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"

var (
	ErrScriptOpen  = errors.FileSystemError("failed to open script").Build()
	ErrScriptRead  = errors.FileSystemError("failed to read script").Build()
	ErrScriptFail  = errors.ExecutionError("script failed").Build()
	ErrWatchSetup  = errors.FileSystemError("failed to watch script").Build()
	ErrSchedule    = errors.RuntimeError("failed to schedule script").Build()
	ErrHistoryOpen = errors.EventStoreError("failed to open invocation history").Build()
)
