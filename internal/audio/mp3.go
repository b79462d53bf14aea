package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"outloud/internal/services"
)

// Encoder converts raw synthesis output into distributable MP3 files via
// ffmpeg.
type Encoder struct {
	binary  string
	bitrate string
}

// NewEncoder builds an Encoder. bitrate is an ffmpeg audio bitrate string
// such as "192k".
func NewEncoder(binary, bitrate string) *Encoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	if bitrate == "" {
		bitrate = "192k"
	}
	return &Encoder{binary: binary, bitrate: bitrate}
}

// CheckAvailable reports whether the ffmpeg binary can be found.
func (e *Encoder) CheckAvailable() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return services.Wrap(services.ErrConfiguration, "audio", "locate ffmpeg",
			fmt.Sprintf("%s not found in PATH", e.binary), err)
	}
	return nil
}

// EncodeMP3 writes samples to outputPath as an MP3. The WAV intermediate is
// staged next to the output and removed afterwards. The output is written to
// a temp name and renamed so readers never observe a partial file.
func (e *Encoder) EncodeMP3(ctx context.Context, samples []float32, sampleRate int, outputPath string) error {
	if len(samples) == 0 {
		return services.Wrap(services.ErrValidation, "audio", "encode mp3", "no samples to encode", nil)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "encode mp3", "failed to create output directory", err)
	}

	wavPath := outputPath + ".wav"
	wavFile, err := os.Create(wavPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "audio", "encode mp3", "failed to create wav intermediate", err)
	}
	defer os.Remove(wavPath)
	if err := WriteWAV(wavFile, samples, sampleRate); err != nil {
		wavFile.Close()
		return err
	}
	if err := wavFile.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "encode mp3", "failed to flush wav intermediate", err)
	}

	tmpPath := outputPath + ".tmp.mp3"
	cmd := exec.CommandContext(ctx, e.binary,
		"-y",
		"-i", wavPath,
		"-codec:a", "libmp3lame",
		"-b:a", e.bitrate,
		"-f", "mp3",
		tmpPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "audio", "encode mp3",
			fmt.Sprintf("ffmpeg failed: %s", lastLine(string(output))), err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrTransient, "audio", "encode mp3", "failed to move encoded file into place", err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
