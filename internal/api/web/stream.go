package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/hlog"

	apiconnect "github.com/osa030/podcastr/internal/api/connect"
	playerv1 "github.com/osa030/podcastr/internal/api/playerv1"
	"github.com/osa030/podcastr/internal/app/media"
	"github.com/osa030/podcastr/internal/app/notification"
	"github.com/osa030/podcastr/internal/app/player"
	"github.com/osa030/podcastr/internal/app/session"
)

var errStreamClosed = errors.New("stream closed")

// initialFrame is the wire form of session.InitialState.
type initialFrame struct {
	Player *playerv1.PlayerState `json:"player"`
	Media  media.Snapshot        `json:"media"`
}

// eventStream writes notifications as server-sent events. Sends may come
// from several broadcasting goroutines at once; a frame older than the last
// one written is dropped, so a send that outlived its broadcast timeout
// cannot land after newer frames.
type eventStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
	lastSeq uint64
}

func newEventStream(w http.ResponseWriter, flusher http.Flusher) *eventStream {
	return &eventStream{w: w, flusher: flusher}
}

// Send implements notification.Stream.
func (s *eventStream) Send(n *notification.Notification) error {
	data, err := json.Marshal(wirePayload(n.Payload))
	if err != nil {
		return errors.Wrap(err, "failed to encode frame")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	// The initial state is a full snapshot and always goes out.
	if n.Type != notification.TypeInitialState && n.SequenceNo <= s.lastSeq {
		return nil
	}
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", n.SequenceNo, n.Type, data); err != nil {
		return errors.Wrap(err, "failed to write frame")
	}
	s.lastSeq = max(s.lastSeq, n.SequenceNo)
	s.flusher.Flush()
	return nil
}

func (s *eventStream) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *eventStream) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// wirePayload converts frame payloads to the shapes the RPC API returns.
func wirePayload(payload any) any {
	switch p := payload.(type) {
	case player.Snapshot:
		return apiconnect.ToPlayerState(p)
	case session.InitialState:
		return initialFrame{Player: apiconnect.ToPlayerState(p.Player), Media: p.Media}
	default:
		return payload
	}
}

// handleStream streams the session's player frames: the initial state
// first, then every command and state change, with periodic heartbeats.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := apiconnect.SessionID(r.Header, s.cookieName)
	if id == "" {
		id = r.URL.Query().Get("session")
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	logger := hlog.FromRequest(r)
	stream := newEventStream(w, flusher)
	defer stream.close()

	// Subscribe before taking the initial state so no frame falls in between.
	subID := sess.Notifications.Subscribe(stream)
	defer sess.Notifications.Unsubscribe(subID)
	if err := stream.Send(sess.InitialState()); err != nil {
		logger.Warn().Err(err).Msg("failed to send initial state")
		return
	}
	logger.Debug().Str("session", sess.ID).Str("subscription", subID).Msg("player stream opened")

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Str("session", sess.ID).Msg("player stream closed")
			return
		case <-ticker.C:
			// Ends the stream once an admin or the sweeper closed the session.
			if _, err := s.sessions.Get(sess.ID); err != nil {
				return
			}
			if err := stream.ping(); err != nil {
				return
			}
		}
	}
}
