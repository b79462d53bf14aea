package services_test

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"outloud/internal/services"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "synthesis", "synthesize chunk", "chunk 3", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped cause to survive")
	}
	if !services.IsDomain(err) {
		t.Fatal("expected external tool error to classify as domain")
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", services.Wrap(services.ErrTransient, "queue", "list pending", "", nil), true},
		{"net timeout", fmt.Errorf("fetch: %w", timeoutErr{}), true},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("down")}, true},
		{"domain", services.Wrap(services.ErrValidation, "extraction", "", "no text", nil), false},
		{"plain", errors.New("nil pointer dereference"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
