package videos

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Thumbnailer extracts a still JPEG frame from a video using the ffmpeg CLI tool.
type Thumbnailer struct {
	Binary  string
	Run     CommandRunner
	Timeout time.Duration
	TempDir string
}

// NewThumbnailer constructs a Thumbnailer that shells out to ffmpeg.
func NewThumbnailer(binary string, timeout time.Duration) *Thumbnailer {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Thumbnailer{
		Binary:  binary,
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Extract writes video to a scratch file and asks ffmpeg for its first frame.
func (t *Thumbnailer) Extract(ctx context.Context, video []byte) ([]byte, error) {
	if t == nil {
		return nil, ErrThumbnailUnavailable
	}
	if t.Run == nil {
		t.Run = defaultCommandRunner
	}

	scratch, err := os.MkdirTemp(t.TempDir, "vlogit-thumb-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	input := filepath.Join(scratch, "input")
	if err := os.WriteFile(input, video, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch video: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", input,
		"-frames:v", "1",
		"-vf", "scale='min(400,iw)':-2",
		"-f", "image2pipe", "-vcodec", "mjpeg",
		"pipe:1",
	}
	out, err := t.Run(execCtx, t.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v", ErrThumbnailUnavailable, err)
	}
	if !bytes.HasPrefix(out, []byte{0xFF, 0xD8}) {
		return nil, fmt.Errorf("%w: ffmpeg produced no jpeg", ErrThumbnailUnavailable)
	}
	return out, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
