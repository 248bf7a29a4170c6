package game

import (
	"math/rand"
	"slices"
	"sync"
)

// Orderer decides the evaluation order of the active actors for a round.
// Implementations must return a new slice holding exactly the given actors.
type Orderer interface {
	Order(actors []Contender) []Contender
}

// IdentityOrder keeps the actors in ID order.
type IdentityOrder struct{}

func (IdentityOrder) Order(actors []Contender) []Contender {
	return slices.Clone(actors)
}

// ReverseOrder evaluates the highest ID first.
type ReverseOrder struct{}

func (ReverseOrder) Order(actors []Contender) []Contender {
	out := slices.Clone(actors)
	slices.Reverse(out)
	return out
}

// PriorityOrder sorts actors with a comparison on their IDs. Ties keep their
// incoming order.
type PriorityOrder func(a, b ActorID) int

func (p PriorityOrder) Order(actors []Contender) []Contender {
	out := slices.Clone(actors)
	slices.SortStableFunc(out, func(a, b Contender) int {
		return p(a.ID(), b.ID())
	})
	return out
}

// ShuffleOrder shuffles the actors every round. Two ShuffleOrders with the
// same seed produce the same sequence of orders.
type ShuffleOrder struct {
	lock sync.Mutex
	rng  *rand.Rand
}

func NewShuffleOrder(seed int64) *ShuffleOrder {
	return &ShuffleOrder{rng: rand.New(rand.NewSource(seed))}
}

func (s *ShuffleOrder) Order(actors []Contender) []Contender {
	out := slices.Clone(actors)
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
