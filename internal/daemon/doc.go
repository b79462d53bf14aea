// Package daemon composes the long-running process: it ties the item store,
// workflow manager, and uploads watcher into a single lifecycle with
// flock-based locking to prevent multiple instances from sharing a database.
package daemon
