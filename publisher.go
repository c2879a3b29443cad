package chanlog

import (
	"sync/atomic"

	"go.jacobcolvin.com/chanlog/spinlock"
)

const defaultSubscriptionBuffer = 64

// Entry is one rendered chunk of log output, tagged with the destination it
// was written to. Banners and message bodies of a single emission arrive as
// separate entries in write order.
type Entry struct {
	Destination string
	Text        string
}

// Publisher fans out rendered log output to subscribers.
//
// Each [Publisher.Publish] delivers the entry to every active [Subscription]
// via a buffered channel with ring-buffer semantics: when a subscriber's
// channel is full the oldest entry is dropped so Publish never blocks. Safe
// for concurrent use.
//
// Install a Publisher on a [Logger] via [Config.Publisher] to observe
// emission without touching the destination files, e.g. for a live tail view
// or for tests.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          spinlock.SpinLock
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default subscription buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultSubscriptionBuffer,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithSubscriptionBuffer sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithSubscriptionBuffer(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// Publish sends the entry to all active subscribers. When a subscriber's
// channel is full the oldest entry is dropped to make room. Closed
// subscriptions are compacted out of the subscriber list.
func (p *Publisher) Publish(destination, text string) {
	p.mu.Acquire()
	defer p.mu.Release()

	if p.closed {
		return
	}

	entry := Entry{Destination: destination, Text: text}

	// Compact closed subscriptions and deliver in one pass.
	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}
		// Ring-buffer: drop oldest if full. The drop is non-blocking in
		// case the subscriber drained the channel concurrently.
		select {
		case sub.ch <- entry:
		default:
			select {
			case <-sub.ch:
			default:
			}

			sub.ch <- entry
		}

		alive = append(alive, sub)
	}
	// Clear trailing references for GC.
	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}

	p.subscribers = alive
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Acquire()
	defer p.mu.Release()

	sub := &Subscription{
		ch: make(chan Entry, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed, closes all subscription channels, and
// releases the subscriber list. Idempotent.
func (p *Publisher) Close() {
	p.mu.Acquire()
	defer p.mu.Release()

	if p.closed {
		return
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil
}

// Subscription receives log entries from a [Publisher].
type Subscription struct {
	ch     chan Entry
	closed atomic.Bool
}

// C returns the read-only channel that delivers log entries.
func (s *Subscription) C() <-chan Entry {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channel on its next Publish or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
