// Package extraction turns a source document into the raw text artifact.
//
// PDF and URL items go through the extract collaborators; pasted-text items
// have their artifact written at ingest and only transition here. The stage
// is idempotent: a surviving raw artifact short-circuits straight to the
// extracted stage.
package extraction
