package game

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/nicholasngai/chairs/internal/fault"
)

type recorder struct {
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.events = append(r.events, e)
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func play(t *testing.T, n int, opts Options) (Result, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts.Sink = rec
	opts.Log = quietLogger()
	c, err := NewCoordinator(NewActors(n), opts)
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res, rec
}

func TestFourPlayers(t *testing.T) {
	res, rec := play(t, 4, Options{Order: NewShuffleOrder(7)})
	if res.Rounds != 3 {
		t.Fatalf("rounds = %d, want 3", res.Rounds)
	}
	if !slices.Equal(res.Seats, []int{3, 2, 1}) {
		t.Fatalf("seats = %v, want [3 2 1]", res.Seats)
	}
	if len(res.Eliminated) != 3 || slices.Contains(res.Eliminated, res.Winner) {
		t.Fatalf("winner %v, eliminated %v", res.Winner, res.Eliminated)
	}

	perRound := map[int]int{}
	for _, e := range rec.events {
		if el, ok := e.(ActorEliminated); ok {
			perRound[el.Round]++
		}
	}
	for round := 1; round <= 3; round++ {
		if perRound[round] != 1 {
			t.Fatalf("round %d eliminated %d actors, want 1", round, perRound[round])
		}
	}
}

func TestTwoPlayers(t *testing.T) {
	res, rec := play(t, 2, Options{})
	if res.Rounds != 1 || !slices.Equal(res.Seats, []int{1}) {
		t.Fatalf("rounds=%d seats=%v", res.Rounds, res.Seats)
	}
	if len(res.Eliminated) != 1 || res.Eliminated[0] == res.Winner {
		t.Fatalf("winner %v eliminated %v", res.Winner, res.Eliminated)
	}
	won, ok := rec.events[len(rec.events)-1].(GameWon)
	if !ok || won.ID != res.Winner {
		t.Fatalf("last event = %#v", rec.events[len(rec.events)-1])
	}
}

func TestSinglePlayerWinsWithoutRounds(t *testing.T) {
	res, rec := play(t, 1, Options{})
	if res.Winner != 1 || res.Rounds != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(rec.events) != 2 {
		t.Fatalf("events = %#v", rec.events)
	}
}

func TestTerminatesInNMinusOneRounds(t *testing.T) {
	for _, mode := range []Mode{Concurrent, Sequential} {
		for n := 2; n <= 24; n++ {
			res, rec := play(t, n, Options{Mode: mode, Order: NewShuffleOrder(int64(n))})
			if res.Rounds != n-1 {
				t.Fatalf("%v n=%d: rounds = %d", mode, n, res.Rounds)
			}

			active := n
			for _, e := range rec.events {
				switch e := e.(type) {
				case RoundStarted:
					if e.Players != active || e.Seats != active-1 {
						t.Fatalf("%v n=%d round %d: players=%d seats=%d, want %d/%d",
							mode, n, e.Round, e.Players, e.Seats, active, active-1)
					}
				case RoundEnded:
					if len(e.Occupants) != active-1 {
						t.Fatalf("%v n=%d round %d: %d occupants", mode, n, e.Round, len(e.Occupants))
					}
					active--
				}
			}
			if active != 1 {
				t.Fatalf("%v n=%d: %d active at the end", mode, n, active)
			}
		}
	}
}

func TestSequentialIdentityEliminatesLastInOrder(t *testing.T) {
	res, rec := play(t, 4, Options{Mode: Sequential, Order: IdentityOrder{}})
	if res.Winner != 1 {
		t.Fatalf("winner = %v, want P1", res.Winner)
	}
	if !slices.Equal(res.Eliminated, []ActorID{4, 3, 2}) {
		t.Fatalf("eliminated = %v", res.Eliminated)
	}

	var first RoundEnded
	for _, e := range rec.events {
		if re, ok := e.(RoundEnded); ok {
			first = re
			break
		}
	}
	if !slices.Equal(first.Occupants, []ActorID{1, 2, 3}) {
		t.Fatalf("round 1 occupants = %v", first.Occupants)
	}
}

func TestSeatedEventsFollowSeatNumbers(t *testing.T) {
	_, rec := play(t, 6, Options{Order: NewShuffleOrder(3)})
	lastSeat := map[int]int{}
	for _, e := range rec.events {
		if s, ok := e.(ActorSeated); ok {
			if s.Seat != lastSeat[s.Round]+1 {
				t.Fatalf("round %d: seat %d after %d", s.Round, s.Seat, lastSeat[s.Round])
			}
			lastSeat[s.Round] = s.Seat
		}
	}
}

type stuckActor struct {
	*Actor
	release chan struct{}
}

func (s *stuckActor) Contend(ctx context.Context, sig Signal, adm Admission) (Claim, error) {
	<-s.release
	return Claim{ID: s.ID(), Outcome: Seated}, nil
}

func TestStuckActorIsLivenessFault(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	actors := NewActors(3)
	actors[1] = &stuckActor{Actor: NewActor(2), release: release}

	rec := &recorder{}
	c, err := NewCoordinator(actors, Options{
		Sink:         rec,
		Log:          quietLogger(),
		RoundTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	_, err = c.Run(context.Background())
	if !errors.Is(err, fault.ErrLivenessFault) {
		t.Fatalf("expected liveness fault, got %v", err)
	}

	last := rec.events[len(rec.events)-1]
	failed, ok := last.(GameFailed)
	if !ok || failed.Round != 1 || !errors.Is(failed.Err, fault.ErrLivenessFault) {
		t.Fatalf("last event = %#v", last)
	}
	for _, e := range rec.events {
		if _, ok := e.(GameWon); ok {
			t.Fatal("GameWon published for a failed game")
		}
	}
}

type liarActor struct {
	*Actor
}

func (l *liarActor) Contend(ctx context.Context, sig Signal, adm Admission) (Claim, error) {
	if err := sig.AwaitOpen(ctx); err != nil {
		return Claim{}, err
	}
	return Claim{ID: l.ID(), Outcome: Seated, Seat: 99}, nil
}

func TestOversubscribedRoundIsContractViolation(t *testing.T) {
	actors := []Contender{&liarActor{NewActor(1)}, &liarActor{NewActor(2)}}
	c, err := NewCoordinator(actors, Options{Log: quietLogger()})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	if _, err := c.Run(context.Background()); !errors.Is(err, fault.ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

type repeatFirstOrder struct{}

func (repeatFirstOrder) Order(actors []Contender) []Contender {
	out := slices.Clone(actors)
	out[len(out)-1] = out[0]
	return out
}

func TestDuplicateInOrderIsContractViolation(t *testing.T) {
	rec := &recorder{}
	c, err := NewCoordinator(NewActors(3), Options{
		Order: repeatFirstOrder{},
		Mode:  Sequential,
		Sink:  rec,
		Log:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	if _, err := c.Run(context.Background()); !errors.Is(err, fault.ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	for _, e := range rec.events {
		switch e.(type) {
		case ActorSeated, RoundEnded:
			t.Fatalf("round resolved with a duplicated actor: %#v", e)
		}
	}
	if c.State().Active() != 3 {
		t.Fatalf("active = %d, want 3", c.State().Active())
	}
}

type foreignOrder struct{}

func (foreignOrder) Order(actors []Contender) []Contender {
	out := slices.Clone(actors)
	out[0] = NewActor(ActorID(len(actors) + 1))
	return out
}

func TestUnknownActorInOrderIsContractViolation(t *testing.T) {
	c, err := NewCoordinator(NewActors(2), Options{Order: foreignOrder{}, Log: quietLogger()})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	if _, err := c.Run(context.Background()); !errors.Is(err, fault.ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c, err := NewCoordinator(NewActors(4), Options{
		Log:      quietLogger(),
		MusicMin: time.Hour,
		MusicMax: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRunTwiceFails(t *testing.T) {
	c, _ := NewCoordinator(NewActors(2), Options{Log: quietLogger()})
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := c.Run(context.Background()); !errors.Is(err, fault.ErrInvalidState) {
		t.Fatalf("second Run: expected invalid state, got %v", err)
	}
}

func TestNewCoordinatorRejectsBadActors(t *testing.T) {
	tests := map[string][]Contender{
		"empty":     nil,
		"gap":       {NewActor(1), NewActor(3)},
		"duplicate": {NewActor(1), NewActor(1)},
		"zero":      {NewActor(0)},
	}
	for name, actors := range tests {
		if _, err := NewCoordinator(actors, Options{}); !errors.Is(err, fault.ErrContractViolation) {
			t.Errorf("%s: expected contract violation, got %v", name, err)
		}
	}
	if _, err := NewCoordinator(NewActors(2), Options{MusicMin: time.Second}); err == nil {
		t.Error("expected error for MusicMax < MusicMin")
	}
}
