// Package config loads game settings from the environment. Command line flags
// registered with Config.RegisterFlags override the environment values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/nicholasngai/chairs/internal/game"
)

type Config struct {
	Players      int           `env:"CHAIRS_PLAYERS"       envDefault:"4"`
	Order        string        `env:"CHAIRS_ORDER"         envDefault:"shuffle"`
	Seed         int64         `env:"CHAIRS_SEED"`
	Mode         string        `env:"CHAIRS_MODE"          envDefault:"concurrent"`
	MusicMin     time.Duration `env:"CHAIRS_MUSIC_MIN"     envDefault:"1s"`
	MusicMax     time.Duration `env:"CHAIRS_MUSIC_MAX"     envDefault:"3s"`
	RoundTimeout time.Duration `env:"CHAIRS_ROUND_TIMEOUT" envDefault:"5s"`
	LogLevel     string        `env:"CHAIRS_LOG_LEVEL"     envDefault:"info"`

	DiscordToken   string `env:"CHAIRS_DISCORD_TOKEN"`
	DiscordChannel string `env:"CHAIRS_DISCORD_CHANNEL"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds every setting to a flag, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Players, "players", c.Players, "Number of players")
	fs.StringVar(&c.Order, "order", c.Order, "Turn order: shuffle, identity or reverse")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Seed for shuffling and music pauses (0 picks one from the clock)")
	fs.StringVar(&c.Mode, "mode", c.Mode, "Contention mode: concurrent or sequential")
	fs.DurationVar(&c.MusicMin, "music-min", c.MusicMin, "Shortest music pause before a round")
	fs.DurationVar(&c.MusicMax, "music-max", c.MusicMax, "Longest music pause before a round")
	fs.DurationVar(&c.RoundTimeout, "round-timeout", c.RoundTimeout, "Time allowed for every player to report in a round (0 disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")
	fs.StringVar(&c.DiscordToken, "auth", c.DiscordToken, "Authentication token for the Discord bot")
	fs.StringVar(&c.DiscordChannel, "channel", c.DiscordChannel, "Discord channel to post the game to")
}

func (c Config) Validate() error {
	if c.Players < 1 {
		return fmt.Errorf("players must be at least 1, got %d", c.Players)
	}
	if c.MusicMin < 0 || c.MusicMax < c.MusicMin {
		return fmt.Errorf("invalid music range [%s, %s]", c.MusicMin, c.MusicMax)
	}
	if c.RoundTimeout < 0 {
		return fmt.Errorf("round timeout must not be negative, got %s", c.RoundTimeout)
	}
	if _, err := c.Orderer(); err != nil {
		return err
	}
	if _, err := c.GameMode(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if (c.DiscordToken == "") != (c.DiscordChannel == "") {
		return errors.New("discord token and channel must be set together")
	}
	return nil
}

// Orderer builds the turn order strategy named by Order.
func (c Config) Orderer() (game.Orderer, error) {
	switch c.Order {
	case "shuffle":
		return game.NewShuffleOrder(c.Seed), nil
	case "identity":
		return game.IdentityOrder{}, nil
	case "reverse":
		return game.ReverseOrder{}, nil
	default:
		return nil, fmt.Errorf("unknown order %q", c.Order)
	}
}

func (c Config) GameMode() (game.Mode, error) {
	switch c.Mode {
	case "concurrent":
		return game.Concurrent, nil
	case "sequential":
		return game.Sequential, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", c.Mode)
	}
}

// Discord reports whether the Discord feed is configured.
func (c Config) Discord() bool {
	return c.DiscordToken != ""
}
