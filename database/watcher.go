package database

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/models"
)

// Event is one emission of the live project subscription: either a
// complete ordered snapshot or an error. Snapshots always carry the full
// result set; consumers replace their state wholesale.
type Event struct {
	Snapshot []models.Project
	Err      error
}

// Watcher turns the project table into a subscribable stream of ordered
// snapshots. Every successful mutation triggers a re-query and a fan-out
// to all subscribers.
type Watcher struct {
	repo   *ProjectRepo
	logger zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewWatcher(repo *ProjectRepo) *Watcher {
	return &Watcher{
		repo:   repo,
		logger: log.With().Str("handlerName", "projectWatcher").Logger(),
		subs:   make(map[int]chan Event),
	}
}

// Subscribe registers a consumer. The current snapshot is delivered as the
// first event. The returned function unsubscribes and closes the channel;
// it must be called on teardown.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	w.mu.Unlock()

	ch <- w.query()

	unsubscribe := func() {
		w.mu.Lock()
		if sub, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(sub)
		}
		w.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish re-queries the collection and fans the result out. Slow
// subscribers drop intermediate snapshots; only the freshest one matters.
func (w *Watcher) Publish() {
	event := w.query()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- event:
		default:
			w.logger.Warn().Msg("subscriber lagging, snapshot dropped")
		}
	}
}

func (w *Watcher) query() Event {
	snapshot, err := w.repo.FindAllOrdered()
	if err != nil {
		w.logger.Error().Err(err).Msg("snapshot query failed")
		return Event{Err: err}
	}
	return Event{Snapshot: snapshot}
}
