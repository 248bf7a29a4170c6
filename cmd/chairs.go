package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholasngai/chairs/internal/config"
	"github.com/nicholasngai/chairs/internal/feed"
)

var log = logrus.New()

func main() {
	os.Exit(run(os.Args[1:]))
}

// run plays one game and returns the process exit code. Deferred cleanup,
// including closing the Discord session, runs before main exits.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Errorln("Error loading configuration:", err)
		return 1
	}
	fs := flag.NewFlagSet("chairs", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return 2
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Stop the game on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := feed.Multi{feed.NewLogSink(log)}
	if cfg.Discord() {
		// Connect to Discord.
		s, err := openDiscord(cfg.DiscordToken)
		if err != nil {
			log.Errorln("Error connecting to Discord:", err)
			return 1
		}
		defer s.Close()
		sinks = append(sinks, feed.NewDiscordSink(s, cfg.DiscordChannel, log))
	}

	res, err := runGame(ctx, cfg, sinks)
	if err != nil {
		log.Errorln("Musical chairs failed:", err)
		return 1
	}
	log.WithFields(logrus.Fields{
		"game":       res.Game.String(),
		"winner":     res.Winner.String(),
		"eliminated": res.Eliminated,
	}).Debugln("Musical chairs finished")
	return 0
}
