package game

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/nicholasngai/chairs/internal/fault"
)

// ActorID identifies an actor for the whole game. IDs run from 1 to N.
type ActorID int

func (id ActorID) String() string {
	return "P" + strconv.Itoa(int(id))
}

// Snapshot is an immutable copy of the game state.
type Snapshot struct {
	Players    int
	Active     int
	Seats      int
	Eliminated []ActorID
}

// State tracks active actors, remaining seats and eliminations. It is owned by
// the coordinator; every method is safe to call from actor goroutines.
type State struct {
	lock       sync.RWMutex
	players    int
	active     int
	seats      int
	eliminated map[ActorID]bool
	order      []ActorID
}

// NewState starts a game of n actors with n-1 seats.
func NewState(n int) (*State, error) {
	if n < 1 {
		return nil, fmt.Errorf("new game with %d players: %w", n, fault.ErrContractViolation)
	}
	return &State{
		players:    n,
		active:     n,
		seats:      n - 1,
		eliminated: make(map[ActorID]bool, n),
	}, nil
}

// Eliminate removes id from the game. Eliminating an unknown actor, an actor
// that is already out, or the last remaining actor is a contract violation.
func (s *State) Eliminate(id ActorID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if id < 1 || int(id) > s.players {
		return fmt.Errorf("eliminate unknown actor %v: %w", id, fault.ErrContractViolation)
	}
	if s.eliminated[id] {
		return fmt.Errorf("eliminate %v twice: %w", id, fault.ErrContractViolation)
	}
	if s.active <= 1 {
		return fmt.Errorf("eliminate %v, the last active actor: %w", id, fault.ErrContractViolation)
	}
	s.eliminated[id] = true
	s.order = append(s.order, id)
	s.active--
	return nil
}

// IsEliminated reports whether id has been eliminated.
func (s *State) IsEliminated(id ActorID) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.eliminated[id]
}

// IsOver reports whether at most one actor remains.
func (s *State) IsOver() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.active <= 1
}

// ReduceSeats takes one seat away, never going below one.
func (s *State) ReduceSeats() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.seats > 1 {
		s.seats--
	}
}

func (s *State) Active() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.active
}

func (s *State) Seats() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.seats
}

// Winner returns the sole remaining actor. It fails while more than one
// actor is still in the game.
func (s *State) Winner() (ActorID, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.active != 1 {
		return 0, fmt.Errorf("winner requested with %d active actors: %w: %w",
			s.active, fault.ErrInvalidState, fault.ErrContractViolation)
	}
	for id := ActorID(1); int(id) <= s.players; id++ {
		if !s.eliminated[id] {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no active actor left: %w", fault.ErrInvalidState)
}

// EliminationOrder returns the eliminated actors, first out first.
func (s *State) EliminationOrder() []ActorID {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]ActorID(nil), s.order...)
}

func (s *State) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return Snapshot{
		Players:    s.players,
		Active:     s.active,
		Seats:      s.seats,
		Eliminated: append([]ActorID(nil), s.order...),
	}
}
