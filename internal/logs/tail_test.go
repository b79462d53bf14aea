package logs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestTailLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outloud.log")
	writeLog(t, path, "one\ntwo\nthree\nfour\n")

	result, err := Tail(context.Background(), path, Options{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "three" || result.Lines[1] != "four" {
		t.Fatalf("unexpected lines %v", result.Lines)
	}

	appendLog(t, path, "five\n")
	next, err := Tail(context.Background(), path, Options{Offset: result.Offset})
	if err != nil {
		t.Fatalf("tail from offset: %v", err)
	}
	if len(next.Lines) != 1 || next.Lines[0] != "five" {
		t.Fatalf("unexpected follow lines %v", next.Lines)
	}
}

func TestTailMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outloud.log")
	result, err := Tail(context.Background(), path, Options{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestTailWaitsForNewLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outloud.log")
	writeLog(t, path, "start\n")

	initial, err := Tail(context.Background(), path, Options{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}

	go func() {
		time.Sleep(400 * time.Millisecond)
		appendLog(t, path, "later\n")
	}()

	result, err := Tail(context.Background(), path, Options{Offset: initial.Offset, Wait: 5 * time.Second})
	if err != nil {
		t.Fatalf("tail wait: %v", err)
	}
	if len(result.Lines) != 1 || result.Lines[0] != "later" {
		t.Fatalf("unexpected waited lines %v", result.Lines)
	}
}

func TestTailHandlesTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outloud.log")
	writeLog(t, path, "a long first generation of log lines\n")

	initial, err := Tail(context.Background(), path, Options{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}

	writeLog(t, path, "fresh\n")
	result, err := Tail(context.Background(), path, Options{Offset: initial.Offset})
	if err != nil {
		t.Fatalf("tail after truncation: %v", err)
	}
	if len(result.Lines) != 1 || result.Lines[0] != "fresh" {
		t.Fatalf("expected restart from top, got %v", result.Lines)
	}
}
