package game

import (
	"context"
	"sync/atomic"
)

// Outcome is the result of one actor's turn in a round.
type Outcome int

const (
	Seated Outcome = iota + 1
	Eliminated
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Seated:
		return "seated"
	case Eliminated:
		return "eliminated"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ActorState is the per-actor state machine:
// Waiting -> Contending -> Seated | Out. Out is terminal.
type ActorState int32

const (
	Waiting ActorState = iota
	Contending
	InSeat
	Out
)

func (s ActorState) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Contending:
		return "contending"
	case InSeat:
		return "seated"
	case Out:
		return "eliminated"
	default:
		return "unknown"
	}
}

// Signal is the part of the round barrier an actor waits on.
type Signal interface {
	AwaitOpen(ctx context.Context) error
}

// Admission is the part of the seat gate an actor claims from.
type Admission interface {
	TryClaim() (int, bool)
}

// Claim is what an actor reports back to the coordinator for a round.
type Claim struct {
	ID      ActorID
	Outcome Outcome
	// Seat is the 1-based seat number when Outcome is Seated.
	Seat int
}

// Contender is anything the coordinator can run a round with.
type Contender interface {
	ID() ActorID
	Eliminated() bool
	Contend(ctx context.Context, sig Signal, adm Admission) (Claim, error)
}

// Actor is a single player. An actor makes exactly one claim per round.
type Actor struct {
	id    ActorID
	state atomic.Int32
}

func NewActor(id ActorID) *Actor {
	return &Actor{id: id}
}

// NewActors builds n actors with IDs 1..n.
func NewActors(n int) []Contender {
	actors := make([]Contender, 0, n)
	for i := 1; i <= n; i++ {
		actors = append(actors, NewActor(ActorID(i)))
	}
	return actors
}

func (a *Actor) ID() ActorID {
	return a.id
}

func (a *Actor) State() ActorState {
	return ActorState(a.state.Load())
}

func (a *Actor) Eliminated() bool {
	return a.State() == Out
}

// Contend waits for the round to open and then claims a seat once. Losing
// the claim eliminates the actor for good. An eliminated actor is skipped
// without touching adm.
func (a *Actor) Contend(ctx context.Context, sig Signal, adm Admission) (Claim, error) {
	if !a.Eliminated() {
		a.state.Store(int32(Waiting))
	}
	if err := sig.AwaitOpen(ctx); err != nil {
		return Claim{ID: a.id}, err
	}
	if a.Eliminated() {
		return Claim{ID: a.id, Outcome: Skipped}, nil
	}

	a.state.Store(int32(Contending))
	if seat, ok := adm.TryClaim(); ok {
		a.state.Store(int32(InSeat))
		return Claim{ID: a.id, Outcome: Seated, Seat: seat}, nil
	}
	a.state.Store(int32(Out))
	return Claim{ID: a.id, Outcome: Eliminated}, nil
}
