package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

var (
	// ErrExternalTool marks failures reported by an external collaborator
	// (synthesis service, extraction engine, cleanup service, ffmpeg).
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks failures caused by unusable input, such as a
	// document that yields no extractable text.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks failures caused by missing or invalid settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups for items or artifacts that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks an optional collaborator that is not reachable
	// right now (the cleanup service being down is the normal case).
	ErrUnavailable = errors.New("service unavailable")
	// ErrTransient marks environmental failures the worker loop should retry
	// without failing any item.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsDomain reports whether an error is an item-level failure: the item gets
// its error field set and the worker moves on to the next item.
func IsDomain(err error) bool {
	return errors.Is(err, ErrExternalTool) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnavailable)
}

// IsTransient reports whether an error is a recoverable environmental failure:
// the worker loop backs off and retries without marking any item failed.
// Anything that is neither transient nor a domain error is treated as a
// programming error and terminates the worker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ECONNABORTED,
		syscall.ETIMEDOUT,
		syscall.EPIPE,
		syscall.EIO,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
