package paramlog

import (
	"bytes"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Publisher is an [io.Writer] that fans out complete log lines to
// subscribers. It is meant to sit behind a [slog.Handler] (see [NewHandler])
// so that a TUI such as paramreg's inspect command can tail log output
// alongside whatever it renders.
//
// Handler writes are not guaranteed to align with log records, so Publisher
// buffers incoming bytes and only delivers a line to subscribers once a
// trailing '\n' has been seen, stripping it. Any unterminated bytes left
// over when Close is called are flushed as one final entry. Each delivered
// line is copied once and sent to every active [Subscription] via a
// buffered channel with ring-buffer semantics: when a subscriber's channel
// is full the oldest entry is dropped so Write never blocks. Safe for
// concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	pending     []byte
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// Write appends b to the pending buffer and delivers every complete,
// newline-terminated line it now contains to all active subscribers.
// Write always returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	p.pending = append(p.pending, b...)

	for {
		idx := bytes.IndexByte(p.pending, '\n')
		if idx < 0 {
			break
		}

		line := p.pending[:idx]
		p.pending = p.pending[idx+1:]

		p.deliverLocked(line)
	}

	return len(b), nil
}

// deliverLocked copies line and sends it to every active subscriber,
// compacting out closed subscriptions. Callers must hold p.mu.
func (p *Publisher) deliverLocked(line []byte) {
	entry := make([]byte, len(line))
	copy(entry, line)

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}

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

	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}

	p.subscribers = alive
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan []byte, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close flushes any unterminated pending bytes as a final line, marks the
// Publisher as closed, closes all subscription channels, and releases the
// subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	if len(p.pending) > 0 {
		p.deliverLocked(p.pending)
		p.pending = nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives log lines from a [Publisher], each stripped of its
// trailing newline.
type Subscription struct {
	ch     chan []byte
	closed atomic.Bool
}

// C returns the read-only channel that delivers log lines.
// Callers must not modify the returned byte slices.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channel the next time it delivers a line or is closed.
// Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
