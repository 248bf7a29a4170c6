package main

import (
	"context"
	"io"
	"testing"

	"github.com/nicholasngai/chairs/internal/config"
	"github.com/nicholasngai/chairs/internal/feed"
	"github.com/nicholasngai/chairs/internal/game"
)

func TestRunGame(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Players = 5
	cfg.Seed = 1
	cfg.MusicMin, cfg.MusicMax = 0, 0
	log.SetOutput(io.Discard)

	rec := &feed.Recorder{}
	res, err := runGame(context.Background(), cfg, rec)
	if err != nil {
		t.Fatalf("runGame: %v", err)
	}
	if res.Rounds != 4 || len(res.Eliminated) != 4 {
		t.Fatalf("result = %+v", res)
	}
	events := rec.Events()
	if won, ok := events[len(events)-1].(game.GameWon); !ok || won.ID != res.Winner {
		t.Fatalf("last event = %#v", events[len(events)-1])
	}
}

func TestRunGameRejectsBadOrder(t *testing.T) {
	cfg, _ := config.Load()
	cfg.Order = "random"
	if _, err := runGame(context.Background(), cfg, &feed.Recorder{}); err == nil {
		t.Fatal("expected error for unknown order")
	}
}
