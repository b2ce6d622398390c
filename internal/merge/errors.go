package merge

import "fmt"

// The merge core reports every fatal condition through one of the typed
// errors below. Handlers and callers branch with errors.As; the pipeline
// treats all of them as run-fatal.

// ConfigError reports an invalid run configuration (date range, granularity,
// reducer name, interpolation method).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// LoadError reports a source file that could not be opened or read.
type LoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("source %s: failed to load %s: %v", e.Source, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a required column missing from a source, or a column
// name collision between two sources at merge time.
type SchemaError struct {
	Source string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("source %s: column %q: %s", e.Source, e.Column, e.Reason)
	}
	return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
}

// MissingTimestampError reports a dataset with no derivable timestamp field:
// the configured timestamp column(s) appear in no row at all.
type MissingTimestampError struct {
	Source  string
	Columns []string
}

func (e *MissingTimestampError) Error() string {
	return fmt.Sprintf("source %s: no recognizable timestamp field (looked for %v)", e.Source, e.Columns)
}

// InsufficientAnchorsError reports an interpolation request with fewer anchor
// points than the chosen method needs. The interpolator never degrades to a
// lower-order method instead.
type InsufficientAnchorsError struct {
	Column string
	Method string
	Need   int
	Got    int
}

func (e *InsufficientAnchorsError) Error() string {
	return fmt.Sprintf("column %q: %s interpolation needs at least %d anchors, got %d", e.Column, e.Method, e.Need, e.Got)
}
