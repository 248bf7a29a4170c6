package game

import "github.com/google/uuid"

// Event is an entry of the game feed consumed by presentation layers.
type Event interface {
	event()
}

type GameStarted struct {
	Game    uuid.UUID
	Players int
	Seats   int
}

type RoundStarted struct {
	Round   int
	Players int
	Seats   int
}

type ActorSeated struct {
	Round int
	ID    ActorID
	Seat  int
}

type ActorEliminated struct {
	Round int
	ID    ActorID
}

// RoundEnded lists the seated actors by seat number.
type RoundEnded struct {
	Round     int
	Occupants []ActorID
}

type GameWon struct {
	ID         ActorID
	Rounds     int
	Eliminated []ActorID
}

// GameFailed reports a fatal error. It is never followed by GameWon.
type GameFailed struct {
	Round int
	Err   error
}

func (GameStarted) event()     {}
func (RoundStarted) event()    {}
func (ActorSeated) event()     {}
func (ActorEliminated) event() {}
func (RoundEnded) event()      {}
func (GameWon) event()         {}
func (GameFailed) event()      {}

// Sink consumes the game feed. Publish is only called from the coordinator
// goroutine.
type Sink interface {
	Publish(e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(e Event)

func (f SinkFunc) Publish(e Event) {
	f(e)
}

type discard struct{}

func (discard) Publish(Event) {}
