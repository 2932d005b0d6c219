package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Inbox is a Capturer fed by remote clients. The client captures its own
// screen and pushes frames; the sequencer consumes them in arrival order.
//
// Acquire succeeds only when the client has already pushed a frame, which is
// how a browser signals that the user accepted the share dialog.
type Inbox struct {
	mu      sync.Mutex
	pending map[string][]domain.Artifact
	limit   int
	now     func() time.Time
}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithQueueLimit bounds the number of unconsumed frames kept per session.
// Older frames are dropped first.
func WithQueueLimit(n int) InboxOption {
	return func(i *Inbox) {
		i.limit = n
	}
}

// NewInbox creates an empty inbox.
func NewInbox(opts ...InboxOption) *Inbox {
	i := &Inbox{
		pending: make(map[string][]domain.Artifact),
		limit:   4,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Push queues a frame for the session.
func (i *Inbox) Push(sessionID string, mediaType string, data []byte) {
	if mediaType == "" {
		mediaType = "image/png"
	}
	art := domain.Artifact{
		MediaType:  mediaType,
		Data:       append([]byte(nil), data...),
		CapturedAt: i.now().UTC(),
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	q := append(i.pending[sessionID], art)
	if i.limit > 0 && len(q) > i.limit {
		q = q[len(q)-i.limit:]
	}
	i.pending[sessionID] = q
}

// Pending returns the number of queued frames for the session.
func (i *Inbox) Pending(sessionID string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending[sessionID])
}

// Forget drops every queued frame of the session.
func (i *Inbox) Forget(sessionID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.pending, sessionID)
}

// Acquire implements ports.Capturer.
func (i *Inbox) Acquire(ctx context.Context, sessionID string) (ports.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}
	if i.Pending(sessionID) == 0 {
		return nil, fmt.Errorf("%w: client has not shared a frame", domain.ErrPermissionDenied)
	}
	return &inboxStream{inbox: i, sessionID: sessionID}, nil
}

func (i *Inbox) pop(sessionID string) (domain.Artifact, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	q := i.pending[sessionID]
	if len(q) == 0 {
		return domain.Artifact{}, false
	}
	art := q[0]
	if len(q) == 1 {
		delete(i.pending, sessionID)
	} else {
		i.pending[sessionID] = q[1:]
	}
	return art, true
}

type inboxStream struct {
	inbox     *Inbox
	sessionID string

	mu       sync.Mutex
	released bool
}

func (s *inboxStream) Frame(ctx context.Context) (domain.Artifact, error) {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return domain.Artifact{}, fmt.Errorf("%w: stream released", domain.ErrCapture)
	}
	art, ok := s.inbox.pop(s.sessionID)
	if !ok {
		return domain.Artifact{}, fmt.Errorf("%w: no frame received from client", domain.ErrCapture)
	}
	return art, nil
}

func (s *inboxStream) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.released {
		s.released = true
		s.inbox.Forget(s.sessionID)
	}
	return nil
}
