package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Static is a Capturer that renders a small synthetic PNG for every frame.
type Static struct {
	width, height int
	acquireErr    error
	now           func() time.Time
}

// StaticOption configures a Static capturer.
type StaticOption func(*Static)

// WithSize sets the frame dimensions.
func WithSize(width, height int) StaticOption {
	return func(s *Static) {
		s.width = width
		s.height = height
	}
}

// WithAcquireError makes every Acquire fail with err.
func WithAcquireError(err error) StaticOption {
	return func(s *Static) {
		s.acquireErr = err
	}
}

// WithClock overrides the frame timestamp source.
func WithClock(now func() time.Time) StaticOption {
	return func(s *Static) {
		s.now = now
	}
}

// NewStatic creates a synthetic capturer.
func NewStatic(opts ...StaticOption) *Static {
	s := &Static{width: 64, height: 40, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire implements ports.Capturer.
func (s *Static) Acquire(ctx context.Context, sessionID string) (ports.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return &staticStream{owner: s}, nil
}

type staticStream struct {
	owner *Static

	mu       sync.Mutex
	seq      int
	released bool
}

func (st *staticStream) Frame(ctx context.Context) (domain.Artifact, error) {
	st.mu.Lock()
	if st.released {
		st.mu.Unlock()
		return domain.Artifact{}, fmt.Errorf("%w: stream released", domain.ErrCapture)
	}
	st.seq++
	seq := st.seq
	st.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %v", domain.ErrCapture, err)
	}

	data, err := st.render(seq)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %v", domain.ErrCapture, err)
	}
	return domain.Artifact{
		MediaType:  "image/png",
		Data:       data,
		CapturedAt: st.owner.now().UTC(),
	}, nil
}

// render draws a gradient whose hue shifts with seq so consecutive frames differ.
func (st *staticStream) render(seq int) ([]byte, error) {
	w, h := st.owner.width, st.owner.height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*255/max(w, 1) + seq*40) % 256),
				G: uint8(y * 255 / max(h, 1)),
				B: uint8(seq * 60 % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (st *staticStream) Release() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.released = true
	return nil
}
