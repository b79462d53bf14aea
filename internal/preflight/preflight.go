// Package preflight provides readiness checks for the external pieces the
// narration pipeline depends on: the data directories, the ffmpeg binary,
// the speech service, and the optional cleanup service.
//
// The daemon runs RunAll once at startup and logs the outcome; the CLI
// "outloud doctor" command renders the same results as a table.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"outloud/internal/cleanup"
	"outloud/internal/config"
	"outloud/internal/tts"
)

// Result reports the outcome of a single preflight check. Optional checks
// can fail without making the pipeline unusable.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Texts directory", cfg.Paths.TextsDir),
		CheckDirectoryAccess("Audio directory", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Uploads directory", cfg.Paths.UploadsDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckBinary("FFmpeg", cfg.FFmpegBinary(), "required for MP3 encoding"),
		CheckSpeechService(ctx, cfg),
		CheckCleanupService(ctx, cfg),
	}
	return results
}

// Failed filters results down to the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// CheckDirectoryAccess verifies that the directory exists and is readable and
// writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("insufficient permissions on %s: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that an external command is resolvable on PATH.
func CheckBinary(name, command, purpose string) Result {
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	if _, err := exec.LookPath(command); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found (%s)", command, purpose)}
	}
	return Result{Name: name, Passed: true, Detail: command}
}

// CheckSpeechService verifies that the synthesis service answers its health
// endpoint. Synthesis cannot proceed without it.
func CheckSpeechService(ctx context.Context, cfg *config.Config) Result {
	const name = "Speech service"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := tts.NewClient(cfg.TTS.ServiceURL, 5*time.Second)
	if err := client.Health(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s unreachable: %v", cfg.TTS.ServiceURL, err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.TTS.ServiceURL}
}

// CheckCleanupService probes the Ollama endpoint. The pipeline narrates raw
// text when cleanup is down, so this check is informational.
func CheckCleanupService(ctx context.Context, cfg *config.Config) Result {
	const name = "Cleanup service"

	client := cleanup.NewClient(cfg, nil)
	if !client.Available(ctx) {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s unreachable; raw text will be narrated as-is", cfg.Cleanup.OllamaURL)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: cfg.Cleanup.OllamaURL}
}
