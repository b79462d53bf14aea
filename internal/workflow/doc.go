// Package workflow orchestrates the document pipeline.
//
// A single worker goroutine discovers pending items oldest first and drives
// each through consecutive stages, re-reading persisted state between
// stages. Failure handling follows a three-way taxonomy: domain errors mark
// the item errored and the loop continues, transient environmental errors
// back the loop off without failing items, and anything else terminates the
// worker for the supervisor to restart. Idle periods suspend on a
// level-triggered wake channel with a poll-interval ceiling.
package workflow
