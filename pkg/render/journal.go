package render

import (
	"context"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// Journal is a Sink retaining the most recent events in a ring, for clients that poll.
type Journal struct {
	mu      sync.Mutex
	ring    []Event
	next    int
	full    bool
	changed chan struct{}
}

// NewJournal returns a Journal keeping up to size events.
func NewJournal(size int) *Journal {
	if size <= 0 {
		size = constants.DefaultJournalSize
	}

	return &Journal{
		ring:    make([]Event, size),
		changed: make(chan struct{}),
	}
}

// Publish implements Sink.
func (j *Journal) Publish(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.ring[j.next] = ev
	j.next = (j.next + 1) % len(j.ring)

	if j.next == 0 {
		j.full = true
	}

	close(j.changed)
	j.changed = make(chan struct{})
}

// Since returns the retained events with a sequence number greater than seq, oldest first.
// truncated is true when events after seq were already overwritten.
func (j *Journal) Since(seq uint64) (events []Event, truncated bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.since(seq)
}

// Wait blocks until events newer than seq exist or ctx is done.
func (j *Journal) Wait(ctx context.Context, seq uint64) ([]Event, bool, error) {
	for {
		j.mu.Lock()
		events, truncated := j.since(seq)
		changed := j.changed
		j.mu.Unlock()

		if len(events) > 0 {
			return events, truncated, nil
		}

		select {
		case <-ctx.Done():
			return nil, false, ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, ctx.Err().Error())
		case <-changed:
		}
	}
}

func (j *Journal) since(seq uint64) ([]Event, bool) {
	retained := j.ordered()
	if len(retained) == 0 {
		return nil, false
	}

	truncated := retained[0].Seq > seq+1

	for i, ev := range retained {
		if ev.Seq > seq {
			out := make([]Event, len(retained)-i)
			copy(out, retained[i:])

			return out, truncated
		}
	}

	return nil, false
}

// ordered returns a view of the ring, oldest first. Callers must not retain it.
func (j *Journal) ordered() []Event {
	if !j.full {
		return j.ring[:j.next]
	}

	out := make([]Event, 0, len(j.ring))
	out = append(out, j.ring[j.next:]...)

	return append(out, j.ring[:j.next]...)
}

// Len returns the number of retained events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.full {
		return len(j.ring)
	}

	return j.next
}
