// Package logging builds the slog loggers used across outloud and defines the
// standardized attribute keys (component, item_id, stage, request_id) that keep
// worker and CLI output greppable. Console output is human-oriented and
// colorized when attached to a terminal; the json format is for log files.
package logging
