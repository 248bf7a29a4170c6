package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nicholasngai/chairs/internal/config"
	"github.com/nicholasngai/chairs/internal/game"
)

// runGame seats cfg.Players actors and plays until one is left.
func runGame(ctx context.Context, cfg config.Config, sink game.Sink) (game.Result, error) {
	order, err := cfg.Orderer()
	if err != nil {
		return game.Result{}, err
	}
	mode, err := cfg.GameMode()
	if err != nil {
		return game.Result{}, err
	}

	c, err := game.NewCoordinator(game.NewActors(cfg.Players), game.Options{
		Order:        order,
		Mode:         mode,
		Sink:         sink,
		Log:          log,
		RoundTimeout: cfg.RoundTimeout,
		MusicMin:     cfg.MusicMin,
		MusicMax:     cfg.MusicMax,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return game.Result{}, err
	}

	log.WithFields(logrus.Fields{
		"game":    c.ID().String(),
		"players": cfg.Players,
		"order":   cfg.Order,
		"seed":    cfg.Seed,
	}).Debugln("Game created")
	return c.Run(ctx)
}
