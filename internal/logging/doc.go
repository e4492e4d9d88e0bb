// Package logging constructs the application's slog loggers and defines
// the attribute helpers and field keys shared across components.
//
// Two output formats exist: a compact console format (key=value after a
// timestamp/level/component prefix) for interactive use, and JSON for
// machine consumption. The default is chosen by whether stdout is a
// terminal. Resolution decisions are logged with standardized keys
// (strategy, term, item_id, scene_id, candidates) so a wrong or missing
// match can be diagnosed from the log alone.
package logging
