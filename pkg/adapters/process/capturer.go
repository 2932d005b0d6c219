package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Capturer implements ports.Capturer by running an external screenshot
// command that writes one image to stdout per invocation.
//
// Examples: "screencapture -x -t png /dev/stdout" on macOS,
// "grim -" on Wayland, "import -window root png:-" with ImageMagick.
type Capturer struct {
	command   string
	args      []string
	mediaType string
	baseDir   string
	now       func() time.Time
}

// CapturerOption configures the capturer.
type CapturerOption func(*Capturer)

// WithArgs sets the arguments passed to the command on every frame.
func WithArgs(args ...string) CapturerOption {
	return func(c *Capturer) {
		c.args = args
	}
}

// WithMediaType sets the media type of the command output. Defaults to image/png.
func WithMediaType(mediaType string) CapturerOption {
	return func(c *Capturer) {
		c.mediaType = mediaType
	}
}

// WithBaseDir sets the working directory for the command.
func WithBaseDir(dir string) CapturerOption {
	return func(c *Capturer) {
		c.baseDir = dir
	}
}

// WithClock overrides the timestamp source of captured frames.
func WithClock(now func() time.Time) CapturerOption {
	return func(c *Capturer) {
		c.now = now
	}
}

// NewCapturer creates a command-backed capturer.
func NewCapturer(command string, opts ...CapturerOption) *Capturer {
	c := &Capturer{
		command:   command,
		mediaType: "image/png",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire checks that the command exists and takes the first frame, which
// the stream hands out on its first Frame call.
// A missing binary is an acquisition failure; a first run that exits
// non-zero is treated as the platform refusing capture.
func (c *Capturer) Acquire(ctx context.Context, sessionID string) (ports.Stream, error) {
	path, err := exec.LookPath(c.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}

	s := &stream{capturer: c, path: path, sessionID: sessionID}
	data, err := s.run(ctx)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}
	s.pending = &domain.Artifact{
		MediaType:  c.mediaType,
		Data:       data,
		CapturedAt: c.now().UTC(),
	}
	return s, nil
}

type stream struct {
	capturer  *Capturer
	path      string
	sessionID string

	mu       sync.Mutex
	released bool
	pending  *domain.Artifact
}

func (s *stream) Frame(ctx context.Context) (domain.Artifact, error) {
	s.mu.Lock()
	released := s.released
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	if released {
		return domain.Artifact{}, fmt.Errorf("%w: stream released", domain.ErrCapture)
	}
	if pending != nil {
		return *pending, nil
	}

	data, err := s.run(ctx)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %v", domain.ErrCapture, err)
	}
	return domain.Artifact{
		MediaType:  s.capturer.mediaType,
		Data:       data,
		CapturedAt: s.capturer.now().UTC(),
	}, nil
}

func (s *stream) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.pending = nil
	return nil
}

// run executes the command once. The session id is exposed to the command
// through the environment rather than as a flag.
func (s *stream) run(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.path, s.capturer.args...)
	cmd.Dir = s.capturer.baseDir
	cmd.Env = append(cmd.Environ(), "WALKTHROUGH_SESSION_ID="+s.sessionID)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("command produced no output")
	}
	return stdout.Bytes(), nil
}
