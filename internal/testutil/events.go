package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/cardsort/internal/events"
)

// RecordingPublisher is an in-memory events.EventPublisher that records
// every event sent through it
type RecordingPublisher struct {
	mu      sync.Mutex
	sent    []events.Event
	owner   string
	SendErr error
}

var _ events.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Connect(ctx context.Context) error { return nil }

func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SendErr != nil {
		return p.SendErr
	}
	p.sent = append(p.sent, event)
	return nil
}

// Listen returns a channel that never delivers
func (p *RecordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (p *RecordingPublisher) Subscribe(ownerID string) error {
	p.mu.Lock()
	p.owner = ownerID
	p.mu.Unlock()
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.sent...)
}

// Subscribed returns the last owner passed to Subscribe
func (p *RecordingPublisher) Subscribed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}
