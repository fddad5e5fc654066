package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyInvocationID = "invocation_id"
	KeySessionID    = "session_id"
	KeyCommand      = "command"
	KeyCommandText  = "command_text"
	KeyAlias        = "alias"
	KeyPath         = "path"
	KeyPhase        = "phase"
	KeyKind         = "kind"
	KeySuccess      = "success"
	KeyDurationMS   = "duration_ms"
	KeyArgCount     = "arg_count"
	KeyLine         = "line"
	KeyFile         = "file"
	KeySubject      = "subject"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func InvocationID(id string) slog.Attr { return slog.String(KeyInvocationID, id) }
func SessionID(id string) slog.Attr    { return slog.String(KeySessionID, id) }
func Command(name string) slog.Attr    { return slog.String(KeyCommand, name) }
func CommandText(t string) slog.Attr   { return slog.String(KeyCommandText, t) }
func Alias(a string) slog.Attr         { return slog.String(KeyAlias, a) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Phase(p string) slog.Attr         { return slog.String(KeyPhase, p) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Success(ok bool) slog.Attr        { return slog.Bool(KeySuccess, ok) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func ArgCount(n int) slog.Attr         { return slog.Int(KeyArgCount, n) }
func Line(n int) slog.Attr             { return slog.Int(KeyLine, n) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
