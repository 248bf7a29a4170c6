package feed

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholasngai/chairs/internal/game"
)

// LogSink writes rendered events to a logrus logger.
type LogSink struct {
	log logrus.FieldLogger
}

func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(e game.Event) {
	text := Render(e)
	if text == "" {
		return
	}
	if f, ok := e.(game.GameFailed); ok {
		s.log.WithError(f.Err).Errorln(text)
		return
	}
	s.log.Println(text)
}
