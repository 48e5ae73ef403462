package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"mediaforge/internal/services"
)

// stderrLimit bounds the diagnostic output captured from a failed encode.
const stderrLimit = 4000

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps encoder CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an encoder client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode720p produces an H.264/AAC MP4 scaled to 720p height.
func (c *Client) Transcode720p(ctx context.Context, inputPath, outputPath string) error {
	return c.run(ctx, "transcode_720p", BuildTranscode720pArgs(inputPath, outputPath))
}

// HLS720p produces a segment playlist plus media segments at 720p in outDir.
func (c *Client) HLS720p(ctx context.Context, inputPath, outDir string) error {
	return c.run(ctx, "hls_720p", BuildHLS720pArgs(inputPath, outDir))
}

func (c *Client) run(ctx context.Context, step string, args []string) error {
	stderr, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		diagnostic := services.Truncate(stderr, stderrLimit)
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return services.Wrap(services.ErrEncode, step, "ffmpeg", diagnostic, err)
	}
	return nil
}

// commandExecutor runs the real binary, capturing stderr silently for
// failure diagnostics.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	return stderrBuf.String(), err
}
