package feed

import (
	"sync"

	"github.com/nicholasngai/chairs/internal/game"
)

// Recorder keeps every published event in memory.
type Recorder struct {
	lock   sync.Mutex
	events []game.Event
}

func (r *Recorder) Publish(e game.Event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []game.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]game.Event(nil), r.events...)
}

// Multi fans every event out to each sink in turn.
type Multi []game.Sink

func (m Multi) Publish(e game.Event) {
	for _, s := range m {
		s.Publish(e)
	}
}
