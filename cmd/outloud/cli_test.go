package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	cfgPath := filepath.Join(base, "config.toml")
	content := "[paths]\ndata_dir = \"" + filepath.Join(base, "data") + "\"\n\n[extraction]\nmin_text_length = 10\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func runCLI(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestAddTextAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCLI(t, cfgPath, "add", "--text", "A short passage worth narrating out loud.", "--title", "Short Passage")
	if !strings.Contains(out, "Queued item 1") {
		t.Fatalf("expected queue confirmation, got %q", out)
	}

	out = runCLI(t, cfgPath, "list")
	if !strings.Contains(out, "Short Passage") || !strings.Contains(out, "queued") {
		t.Fatalf("expected listed item, got %q", out)
	}
}

func TestAddTextDeduplicates(t *testing.T) {
	cfgPath := writeTestConfig(t)

	runCLI(t, cfgPath, "add", "--text", "The same passage submitted twice in a row.", "--title", "Duplicate")
	out := runCLI(t, cfgPath, "add", "--text", "The same passage submitted twice in a row.", "--title", "Duplicate")
	if !strings.Contains(out, "Already tracked as item 1") {
		t.Fatalf("expected dedup notice, got %q", out)
	}
}

func TestStatusCountsQueuedItems(t *testing.T) {
	cfgPath := writeTestConfig(t)

	runCLI(t, cfgPath, "add", "--text", "Something to count in the status table.", "--title", "Counted")
	out := runCLI(t, cfgPath, "status")
	if !strings.Contains(out, "queued") || !strings.Contains(out, "1") {
		t.Fatalf("expected queued count, got %q", out)
	}
}

func TestMarkCompletedRejectsQueuedItem(t *testing.T) {
	cfgPath := writeTestConfig(t)

	runCLI(t, cfgPath, "add", "--text", "Not yet narrated, so it cannot be completed.", "--title", "Pending")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "mark-completed", "1"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "not ready") {
		t.Fatalf("expected not-ready rejection, got %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	base := t.TempDir()
	cfgPath := filepath.Join(base, "config.toml")

	out := runCLI(t, cfgPath, "config", "init")
	if !strings.Contains(out, cfgPath) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("sample config missing paths section:\n%s", data)
	}
}
