// Package notification fans out player frames to the streams of a session.
package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Frame types
const (
	TypeInitialState = "initial_state"
	TypeState        = "state"
	TypeCommand      = "command"
)

// DefaultSendTimeout bounds a single stream send during Broadcast.
const DefaultSendTimeout = 500 * time.Millisecond

// Notification is one frame delivered to a stream.
type Notification struct {
	Type       string `json:"type"`
	SequenceNo uint64 `json:"seq"`
	Payload    any    `json:"payload,omitempty"`
}

// Stream represents a subscriber's outbound stream. Send may be called
// concurrently, and a send that timed out keeps running, so frames can
// arrive out of SequenceNo order.
type Stream interface {
	Send(*Notification) error
}

// Manager manages stream subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]Stream
	sequenceNo    atomic.Uint64
	sendTimeout   time.Duration
}

// NewManager creates a new notification manager.
func NewManager(sendTimeout time.Duration) *Manager {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Manager{
		subscriptions: make(map[string]Stream),
		sendTimeout:   sendTimeout,
	}
}

// Subscribe adds a stream and returns its subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = stream
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// NextSequenceNo returns the next sequence number.
func (m *Manager) NextSequenceNo() uint64 {
	return m.sequenceNo.Add(1)
}

// Broadcast stamps the frame with a sequence number and sends it to every
// subscriber in parallel. Subscribers whose send fails are dropped; slow ones
// miss the frame. It returns the number of subscribers that did not receive it.
func (m *Manager) Broadcast(n *Notification) int {
	n.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	ids := make([]string, 0, len(m.subscriptions))
	streams := make([]Stream, 0, len(m.subscriptions))
	for id, s := range m.subscriptions {
		ids = append(ids, id)
		streams = append(streams, s)
	}
	m.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		missed  atomic.Int32
		failedM sync.Mutex
		failed  []string
	)
	for i := range streams {
		wg.Add(1)
		go func(id string, s Stream) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.Send(n)
			}()

			select {
			case err := <-done:
				if err != nil {
					missed.Add(1)
					failedM.Lock()
					failed = append(failed, id)
					failedM.Unlock()
				}
			case <-ctx.Done():
				missed.Add(1)
				zlog.Debug().Msgf("notification: send timed out: subscription=%s type=%s", id, n.Type)
			}
		}(ids[i], streams[i])
	}
	wg.Wait()

	for _, id := range failed {
		m.Unsubscribe(id)
	}
	return int(missed.Load())
}

// Send sends a frame to one subscriber. Unknown subscriptions are ignored.
func (m *Manager) Send(subscriptionID string, n *Notification) error {
	m.mu.RLock()
	s, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.Send(n)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]Stream)
}
