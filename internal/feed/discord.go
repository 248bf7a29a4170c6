package feed

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/nicholasngai/chairs/internal/game"
)

// MessageSender is the part of a discordgo session used to post the feed.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string) (*discordgo.Message, error)
}

var _ MessageSender = (*discordgo.Session)(nil)

// DiscordSink posts rendered events to a Discord channel. Per-actor events
// are folded into the round summary to stay under Discord rate limits.
type DiscordSink struct {
	sender    MessageSender
	channelID string
	log       logrus.FieldLogger

	pending []string
}

func NewDiscordSink(sender MessageSender, channelID string, log logrus.FieldLogger) *DiscordSink {
	return &DiscordSink{
		sender:    sender,
		channelID: channelID,
		log:       log,
	}
}

func (s *DiscordSink) Publish(e game.Event) {
	text := Render(e)
	if text == "" {
		return
	}

	switch e.(type) {
	case game.ActorSeated, game.ActorEliminated:
		s.pending = append(s.pending, text)
		return
	case game.RoundEnded:
		// Code fence keeps the chair table aligned.
		text = "```\n" + strings.Join(append(s.pending, text), "\n") + "\n```"
		s.pending = nil
	}

	if _, err := s.sender.ChannelMessageSend(s.channelID, text); err != nil {
		s.log.WithFields(logrus.Fields{
			"channel": s.channelID,
		}).Errorln("Error sending game event to Discord:", err)
	}
}
