package commands

import "git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"

var (
	ErrMetricsListen = errors.RuntimeError("failed to start metrics endpoint").Build()
	ErrHistoryOff    = errors.ConfigError("no invocation history at path (enable history in the configuration)").Build()
)
