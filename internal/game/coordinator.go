package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nicholasngai/chairs/internal/barrier"
	"github.com/nicholasngai/chairs/internal/fault"
	"github.com/nicholasngai/chairs/internal/gate"
)

// Mode selects how actors contend within a round.
type Mode int

const (
	// Concurrent runs one goroutine per active actor, all parked on the
	// barrier before it opens.
	Concurrent Mode = iota
	// Sequential calls Contend in evaluation order from a single goroutine,
	// so the first actors in the order take the seats.
	Sequential
)

func (m Mode) String() string {
	switch m {
	case Concurrent:
		return "concurrent"
	case Sequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// Options configures a Coordinator. Zero values are usable.
type Options struct {
	Order Orderer
	Mode  Mode
	Sink  Sink
	Log   logrus.FieldLogger

	// RoundTimeout bounds the wait for every actor to report. Zero waits
	// forever.
	RoundTimeout time.Duration

	// MusicMin and MusicMax bound the random pause before each round.
	MusicMin time.Duration
	MusicMax time.Duration
	Seed     int64
}

// Result summarizes a finished game.
type Result struct {
	Game       uuid.UUID
	Winner     ActorID
	Rounds     int
	Eliminated []ActorID
	// Seats holds the number of seats armed in each round.
	Seats []int
}

// Coordinator drives the round loop until one actor remains.
type Coordinator struct {
	id      uuid.UUID
	actors  []Contender
	state   *State
	gate    *gate.Gate
	barrier *barrier.Barrier

	order        Orderer
	mode         Mode
	sink         Sink
	log          logrus.FieldLogger
	roundTimeout time.Duration
	musicMin     time.Duration
	musicMax     time.Duration

	rngLock sync.Mutex
	rng     *rand.Rand

	ran atomic.Bool
}

// NewCoordinator prepares a game for actors, whose IDs must be exactly 1..N.
func NewCoordinator(actors []Contender, opts Options) (*Coordinator, error) {
	if len(actors) == 0 {
		return nil, fmt.Errorf("no actors: %w", fault.ErrContractViolation)
	}
	seen := make(map[ActorID]bool, len(actors))
	for _, a := range actors {
		id := a.ID()
		if id < 1 || int(id) > len(actors) || seen[id] {
			return nil, fmt.Errorf("actor ids must be 1..%d without repeats, got %v: %w",
				len(actors), id, fault.ErrContractViolation)
		}
		if a.Eliminated() {
			return nil, fmt.Errorf("actor %v joined already eliminated: %w", id, fault.ErrContractViolation)
		}
		seen[id] = true
	}
	if opts.MusicMin < 0 || opts.MusicMax < opts.MusicMin {
		return nil, fmt.Errorf("invalid music range [%s, %s]", opts.MusicMin, opts.MusicMax)
	}

	state, err := NewState(len(actors))
	if err != nil {
		return nil, err
	}

	ordered := slices.Clone(actors)
	slices.SortFunc(ordered, func(a, b Contender) int {
		return int(a.ID()) - int(b.ID())
	})

	c := &Coordinator{
		id:           uuid.New(),
		actors:       ordered,
		state:        state,
		gate:         gate.New(),
		barrier:      barrier.New(),
		order:        opts.Order,
		mode:         opts.Mode,
		sink:         opts.Sink,
		log:          opts.Log,
		roundTimeout: opts.RoundTimeout,
		musicMin:     opts.MusicMin,
		musicMax:     opts.MusicMax,
		rng:          rand.New(rand.NewSource(opts.Seed)),
	}
	if c.order == nil {
		c.order = IdentityOrder{}
	}
	if c.sink == nil {
		c.sink = discard{}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log = c.log.WithField("game", c.id.String())
	return c, nil
}

// ID identifies this game in logs and events.
func (c *Coordinator) ID() uuid.UUID {
	return c.id
}

// State exposes the game state for read-only inspection.
func (c *Coordinator) State() *State {
	return c.state
}

// Run plays rounds until a winner is left, ctx is done or a fatal error
// occurs. Fatal errors are published as GameFailed and returned. A
// Coordinator can only be run once.
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return Result{}, fmt.Errorf("coordinator already ran: %w", fault.ErrInvalidState)
	}

	res := Result{Game: c.id}
	snap := c.state.Snapshot()
	c.sink.Publish(GameStarted{Game: c.id, Players: snap.Players, Seats: snap.Seats})
	c.log.WithFields(logrus.Fields{
		"players": snap.Players,
		"seats":   snap.Seats,
		"mode":    c.mode.String(),
	}).Infoln("Game started")

	for round := 1; !c.state.IsOver(); round++ {
		if err := c.intermission(ctx); err != nil {
			return res, c.fail(round, err)
		}
		seats := c.state.Seats()
		if err := c.playRound(ctx, round); err != nil {
			return res, c.fail(round, err)
		}
		res.Rounds = round
		res.Seats = append(res.Seats, seats)
		if c.state.IsOver() {
			break
		}
		c.state.ReduceSeats()
	}

	winner, err := c.state.Winner()
	if err != nil {
		return res, c.fail(res.Rounds, err)
	}
	res.Winner = winner
	res.Eliminated = c.state.EliminationOrder()

	c.sink.Publish(GameWon{ID: winner, Rounds: res.Rounds, Eliminated: res.Eliminated})
	c.log.WithFields(logrus.Fields{
		"winner": winner.String(),
		"rounds": res.Rounds,
	}).Infoln("Game won")
	return res, nil
}

func (c *Coordinator) fail(round int, err error) error {
	err = fmt.Errorf("round %d: %w", round, err)
	c.sink.Publish(GameFailed{Round: round, Err: err})
	c.log.WithField("round", round).WithError(err).Errorln("Game failed")
	return err
}

// intermission is the music playing before the seats are contended.
func (c *Coordinator) intermission(ctx context.Context) error {
	d := c.musicMin
	if span := c.musicMax - c.musicMin; span > 0 {
		c.rngLock.Lock()
		d += time.Duration(c.rng.Int63n(int64(span) + 1))
		c.rngLock.Unlock()
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) playRound(ctx context.Context, round int) error {
	active := make([]Contender, 0, len(c.actors))
	for _, a := range c.actors {
		if !c.state.IsEliminated(a.ID()) {
			active = append(active, a)
		}
	}
	order := c.order.Order(active)
	if len(order) != len(active) {
		return fmt.Errorf("orderer returned %d of %d actors: %w", len(order), len(active), fault.ErrContractViolation)
	}
	pending := make(map[ActorID]bool, len(active))
	for _, a := range active {
		pending[a.ID()] = true
	}
	for _, a := range order {
		if !pending[a.ID()] {
			return fmt.Errorf("orderer returned %v twice or out of turn: %w", a.ID(), fault.ErrContractViolation)
		}
		delete(pending, a.ID())
	}

	seats := c.state.Seats()
	log := c.log.WithFields(logrus.Fields{
		"round":   round,
		"players": len(active),
		"seats":   seats,
	})
	c.sink.Publish(RoundStarted{Round: round, Players: len(active), Seats: seats})
	log.Infoln("Round started")

	defer c.gate.Disarm()
	defer c.barrier.Close()

	claims, err := c.contend(ctx, order, seats)
	if err != nil {
		return err
	}

	if granted, armed := c.gate.Granted(), c.gate.Armed(); granted > armed {
		return fmt.Errorf("%d seats granted with %d armed: %w", granted, armed, fault.ErrContractViolation)
	}

	var seated, eliminated []Claim
	for _, cl := range claims {
		switch cl.Outcome {
		case Seated:
			seated = append(seated, cl)
		case Eliminated:
			eliminated = append(eliminated, cl)
		default:
			return fmt.Errorf("active actor %v reported %v: %w", cl.ID, cl.Outcome, fault.ErrContractViolation)
		}
	}
	if len(seated) != seats || len(eliminated) != len(active)-seats {
		return fmt.Errorf("%d seated and %d eliminated with %d actors and %d seats: %w",
			len(seated), len(eliminated), len(active), seats, fault.ErrContractViolation)
	}

	slices.SortFunc(seated, func(a, b Claim) int { return a.Seat - b.Seat })
	occupants := make([]ActorID, 0, len(seated))
	for _, cl := range seated {
		occupants = append(occupants, cl.ID)
		c.sink.Publish(ActorSeated{Round: round, ID: cl.ID, Seat: cl.Seat})
		log.WithFields(logrus.Fields{"actor": cl.ID.String(), "seat": cl.Seat}).Debugln("Actor seated")
	}
	for _, cl := range eliminated {
		if err := c.state.Eliminate(cl.ID); err != nil {
			return err
		}
		c.sink.Publish(ActorEliminated{Round: round, ID: cl.ID})
		log.WithField("actor", cl.ID.String()).Infoln("Actor eliminated")
	}

	c.sink.Publish(RoundEnded{Round: round, Occupants: occupants})
	return nil
}

// contend arms the gate, opens the barrier and waits for every actor in
// order to report exactly one claim. Claims come back in evaluation order.
func (c *Coordinator) contend(ctx context.Context, order []Contender, seats int) ([]Claim, error) {
	rctx, cancel := ctx, context.CancelFunc(func() {})
	if c.roundTimeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, c.roundTimeout)
	}
	defer cancel()

	claims := make([]Claim, len(order))
	var reported atomic.Int32
	report := func(i int, a Contender, cl Claim) error {
		if cl.ID != a.ID() {
			return fmt.Errorf("actor %v reported as %v: %w", a.ID(), cl.ID, fault.ErrContractViolation)
		}
		claims[i] = cl
		reported.Add(1)
		return nil
	}

	var play func() error
	switch c.mode {
	case Concurrent:
		g, gctx := errgroup.WithContext(rctx)
		for i, a := range order {
			i, a := i, a
			g.Go(func() error {
				cl, err := a.Contend(gctx, c.barrier, c.gate)
				if err != nil {
					return fmt.Errorf("actor %v: %w", a.ID(), err)
				}
				return report(i, a, cl)
			})
		}
		play = g.Wait
	case Sequential:
		play = func() error {
			for i, a := range order {
				cl, err := a.Contend(rctx, c.barrier, c.gate)
				if err != nil {
					return fmt.Errorf("actor %v: %w", a.ID(), err)
				}
				if err := report(i, a, cl); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		return nil, fmt.Errorf("unknown mode %d: %w", c.mode, fault.ErrContractViolation)
	}

	if err := c.gate.Arm(seats); err != nil {
		cancel()
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- play() }()
	c.barrier.Open()

	var err error
	select {
	case err = <-done:
	case <-rctx.Done():
		select {
		case err = <-done:
		default:
			err = rctx.Err()
		}
	}
	if err == nil {
		return claims, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%d of %d actors reported within %s: %w",
			reported.Load(), len(order), c.roundTimeout, fault.ErrLivenessFault)
	}
	return nil, err
}
