package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"outloud/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	if result := CheckDirectoryAccess("Texts directory", dir); !result.Passed {
		t.Fatalf("expected pass for %s, got %q", dir, result.Detail)
	}
	if result := CheckDirectoryAccess("Texts directory", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := CheckDirectoryAccess("Texts directory", file); result.Passed {
		t.Fatal("expected failure for regular file")
	}
}

func TestCheckBinary(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	if result := CheckBinary("FFmpeg", present, "encoding"); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if result := CheckBinary("FFmpeg", "clearly-not-a-real-binary", "encoding"); result.Passed {
		t.Fatal("expected failure for missing binary")
	}
	if result := CheckBinary("FFmpeg", "", "encoding"); result.Passed {
		t.Fatal("expected failure for unconfigured binary")
	}
}

func TestCheckSpeechService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTTSServiceURL(server.URL))
	if result := CheckSpeechService(context.Background(), cfg); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}

	down := testsupport.NewConfig(t, testsupport.WithTTSServiceURL("http://127.0.0.1:1"))
	if result := CheckSpeechService(context.Background(), down); result.Passed {
		t.Fatal("expected failure for unreachable service")
	}
}

func TestCheckCleanupServiceIsOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOllamaURL("http://127.0.0.1:1"))
	result := CheckCleanupService(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for unreachable cleanup service")
	}
	if !result.Optional {
		t.Fatal("cleanup check should be optional")
	}
}

func TestRunAllReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithTTSServiceURL("http://127.0.0.1:1"),
		testsupport.WithOllamaURL("http://127.0.0.1:1"),
	)
	for _, dir := range []string{cfg.Paths.TextsDir, cfg.Paths.AudioDir, cfg.Paths.UploadsDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	failed := Failed(results)
	if len(failed) == 0 {
		t.Fatal("expected unreachable services to fail")
	}
	for _, result := range failed {
		if result.Name == "Texts directory" {
			t.Fatalf("directory check failed unexpectedly: %q", result.Detail)
		}
	}
}
