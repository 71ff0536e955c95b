// Package live turns a repository into a push-updated collection. Subscribers
// receive the full current snapshot on subscribe and after every change.
package live

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Loader reads the complete current contents of a collection.
type Loader[T any] func() ([]T, error)

// Snapshot is one full materialization of a collection. Err is set when the
// collection could not be read; Records is then nil.
type Snapshot[T any] struct {
	Records []T
	Err     error
}

// Feed fans snapshots of one collection out to its subscribers.
type Feed[T any] struct {
	name string
	load Loader[T]

	// loadMu orders reloads with their delivery, so a slow load never
	// overwrites the snapshot of a later one.
	loadMu sync.Mutex

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription[T]
}

// NewFeed creates a feed for the named collection.
func NewFeed[T any](name string, load Loader[T]) *Feed[T] {
	return &Feed[T]{
		name: name,
		load: load,
		subs: make(map[uint64]*Subscription[T]),
	}
}

// Subscription is a live view of a feed. C yields the latest snapshot; if the
// consumer falls behind, older pending snapshots are replaced by newer ones.
type Subscription[T any] struct {
	id     uint64
	feed   *Feed[T]
	filter func(T) bool
	ch     chan Snapshot[T]
	once   sync.Once
	done   chan struct{}
}

// C returns the snapshot channel. It is closed by Unsubscribe.
func (s *Subscription[T]) C() <-chan Snapshot[T] {
	return s.ch
}

// Done is closed once the subscription has been cancelled.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe stops delivery. It is safe to call more than once and from any
// goroutine; no snapshot is delivered after it returns.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		close(s.done)
		close(s.ch)
		s.feed.mu.Unlock()
	})
}

// Subscribe registers a subscriber and delivers the current snapshot to it.
// filter may be nil to receive every record. The subscription ends when ctx is
// cancelled or Unsubscribe is called.
func (f *Feed[T]) Subscribe(ctx context.Context, filter func(T) bool) (*Subscription[T], error) {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	records, err := f.load()
	if err != nil {
		return nil, errors.Wrapf(err, "load %s snapshot", f.name)
	}

	f.mu.Lock()
	f.nextID++
	sub := &Subscription[T]{
		id:     f.nextID,
		feed:   f,
		filter: filter,
		ch:     make(chan Snapshot[T], 1),
		done:   make(chan struct{}),
	}
	f.subs[sub.id] = sub
	sub.deliver(Snapshot[T]{Records: records})
	f.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()
	return sub, nil
}

// Notify reloads the collection and pushes the new snapshot to all subscribers.
// Services call it after every successful write. With no subscribers the
// collection is not read.
func (f *Feed[T]) Notify() {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	if f.Len() == 0 {
		return
	}
	records, err := f.load()
	if err != nil {
		log.WithError(err).WithField("collection", f.name).Error("reload snapshot")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if err != nil {
			sub.deliver(Snapshot[T]{Err: err})
			continue
		}
		sub.deliver(Snapshot[T]{Records: records})
	}
}

// Len reports the number of active subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// deliver must be called with the feed lock held.
func (s *Subscription[T]) deliver(snap Snapshot[T]) {
	if snap.Err == nil && s.filter != nil {
		kept := make([]T, 0, len(snap.Records))
		for _, r := range snap.Records {
			if s.filter(r) {
				kept = append(kept, r)
			}
		}
		snap.Records = kept
	}
	select {
	case s.ch <- snap:
		return
	default:
	}
	// Drop the stale pending snapshot; the new one supersedes it.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}
