// File: /services/feed_service.go
package services

import (
	"log"
	"sync"

	"fiesta-api/models"
)

// EventLister is the slice of the event store the feed needs: a full
// collection scan in store order.
type EventLister interface {
	ListAll() ([]models.Event, error)
}

// FeedHub keeps every live feed subscription in sync with the events
// collection. On every change notification it re-reads the whole collection
// and hands each subscriber a complete snapshot filtered against its
// excluded user. Snapshots replace each other wholesale; there is no
// incremental diffing.
type FeedHub struct {
	events EventLister

	mu   sync.Mutex
	seq  uint64
	subs map[*FeedSubscription]struct{}
}

func NewFeedHub(events EventLister) *FeedHub {
	return &FeedHub{
		events: events,
		subs:   make(map[*FeedSubscription]struct{}),
	}
}

// FeedSubscription delivers snapshots for one viewer. Close must be called
// exactly once when the consumer goes away; the snapshot channel closes with
// it. Until the first snapshot arrives the feed is "not yet loaded", which is
// distinct from an empty snapshot.
type FeedSubscription struct {
	hub            *FeedHub
	excludedUserID string
	snapshots      chan []models.Event
	closeOnce      sync.Once
}

// Snapshots returns the channel of feed snapshots. Each value is the full
// current set of events not created by the excluded user.
func (s *FeedSubscription) Snapshots() <-chan []models.Event {
	return s.snapshots
}

// Close releases the subscription and closes the snapshot channel. Safe to
// call more than once.
func (s *FeedSubscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
		close(s.snapshots)
	})
}

// deliver queues a snapshot, dropping a stale undelivered one first. Called
// only with the hub mutex held, which is what keeps it ordered against Close.
func (s *FeedSubscription) deliver(snapshot []models.Event) {
	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- snapshot:
	default:
	}
}

// Subscribe registers a new feed consumer and pushes its first snapshot.
func (h *FeedHub) Subscribe(excludedUserID string) *FeedSubscription {
	sub := &FeedSubscription{
		hub:            h,
		excludedUserID: excludedUserID,
		snapshots:      make(chan []models.Event, 1),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	seq := h.seq
	h.mu.Unlock()

	go h.pushInitial(sub, seq)

	return sub
}

func (h *FeedHub) remove(sub *FeedSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// EventsChanged re-snapshots the collection for every subscriber. It is the
// ChangeNotifier used when the API runs without Redis.
func (h *FeedHub) EventsChanged() {
	all, err := h.events.ListAll()
	if err != nil {
		log.Printf("Failed to re-snapshot events collection: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	for sub := range h.subs {
		sub.deliver(filterEvents(all, sub.excludedUserID))
	}
}

// pushInitial loads a new subscriber's first snapshot. seq pins the
// collection version seen at subscribe time: if a change notification lands
// while the load is in flight, the load's result is older than what the
// subscriber already received and must not replace it.
func (h *FeedHub) pushInitial(sub *FeedSubscription, seq uint64) {
	all, err := h.events.ListAll()
	if err != nil {
		log.Printf("Failed to load initial feed snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seq != seq {
		return
	}
	if _, ok := h.subs[sub]; !ok {
		// Closed before the first snapshot arrived
		return
	}
	sub.deliver(filterEvents(all, sub.excludedUserID))
}

// filterEvents drops the viewer's own events. An empty result is a valid
// snapshot.
func filterEvents(all []models.Event, excludedUserID string) []models.Event {
	filtered := make([]models.Event, 0, len(all))
	for _, event := range all {
		if event.CreatorID == excludedUserID {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}
