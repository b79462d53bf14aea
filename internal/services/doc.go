// Package services supplies the shared error taxonomy and context annotation
// helpers used by the pipeline stages and their external collaborators.
//
// Errors fall into three classes the worker loop acts on: domain errors
// (tagged with one of the sentinel markers) fail a single item, transient
// errors trigger a loop-level backoff and retry, and everything else is
// treated as a programming error that terminates the worker.
package services
