package main

import (
	"github.com/bwmarrin/discordgo"
)

// openDiscord starts a bot session used only to post the game feed.
func openDiscord(authToken string) (*discordgo.Session, error) {
	// Construct session.
	s, err := discordgo.New("Bot " + authToken)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages

	err = s.Open()
	if err != nil {
		return nil, err
	}
	log.Println("Bot started successfully")
	return s, nil
}
