package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeySourceRoot = "source_root"
	KeyDestRoot   = "destination_root"
	KeySiteRoot   = "site_root"
	KeyRule       = "rule"
	KeyInput      = "input"
	KeyOutput     = "output"
	KeyEdges      = "edges"
	KeyExitCode   = "exit_code"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func SourceRoot(p string) slog.Attr   { return slog.String(KeySourceRoot, p) }
func DestRoot(p string) slog.Attr     { return slog.String(KeyDestRoot, p) }
func SiteRoot(p string) slog.Attr     { return slog.String(KeySiteRoot, p) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Input(p string) slog.Attr        { return slog.String(KeyInput, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Edges(n int) slog.Attr           { return slog.Int(KeyEdges, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
