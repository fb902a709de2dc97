package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyLink       = "link"
	KeyKind       = "kind"
	KeyReason     = "reason"
	KeyCount      = "count"
	KeyTemplate   = "template"
	KeyTag        = "tag"
	KeyDependency = "dependency"
	KeyOutput     = "output"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func Dependency(key string) slog.Attr { return slog.String(KeyDependency, key) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }

// Elapsed reports the time since start as a duration_ms attribute.
func Elapsed(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
