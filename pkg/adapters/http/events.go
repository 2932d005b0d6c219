package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// StreamManager fans session diffs out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> set of channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a channel for the session. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions for the session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast delivers msg to every subscriber of the session.
// Slow subscribers miss the message and catch up by position.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[sessionID]
	if !ok {
		return
	}
	sm.logger.Debug("broadcasting diff", "session_id", sessionID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// SubscribeEvents handles GET /sessions/{id}/events.
//
// Each transcript message is sent once as an "message" event whose id is its
// position. State changes are sent as "state" events. A client reconnecting
// with ?after=n only receives messages from position n on.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, id string, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	sess, err := s.Guide.Session(r.Context(), id)
	if err != nil {
		s.fail(w, r, "subscribe events", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	next := 0
	if params.After != nil && *params.After > 0 {
		next = *params.After
	}
	s.logger.Info("SSE subscribed", "session_id", id, "after", next)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	next = s.sendMessages(w, sess.Transcript.Since(next), next)
	s.sendState(w, sess.State)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var diff domain.SessionDiff
			if err := json.Unmarshal([]byte(msg), &diff); err != nil {
				s.logger.Warn("SSE: undecodable diff", "session_id", id, "error", err)
				continue
			}

			if diff.From > next {
				// A diff was dropped. Reload to fill the gap.
				fresh, err := s.Guide.Session(r.Context(), id)
				if err != nil {
					s.logger.Warn("SSE: reload failed", "session_id", id, "error", err)
					return
				}
				next = s.sendMessages(w, fresh.Transcript.Since(next), next)
			} else {
				skip := next - diff.From
				if skip < len(diff.Messages) {
					next = s.sendMessages(w, diff.Messages[skip:], next)
				}
			}
			if diff.State != nil {
				s.sendState(w, *diff.State)
			}
			flusher.Flush()
		}
	}
}

// sendMessages writes msgs starting at position from and returns the next position.
func (s *Server) sendMessages(w http.ResponseWriter, msgs []domain.Message, from int) int {
	for i, view := range newMessageViews(msgs) {
		data, err := json.Marshal(view)
		if err != nil {
			s.logger.Error("SSE: message encode failed", "error", err)
			continue
		}
		fmt.Fprintf(w, "id: %d\nevent: message\ndata: %s\n\n", from+i, data)
	}
	return from + len(msgs)
}

func (s *Server) sendState(w http.ResponseWriter, st domain.SequencerState) {
	data, err := json.Marshal(newStateView(st))
	if err != nil {
		s.logger.Error("SSE: state encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
}
