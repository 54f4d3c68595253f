package notify

import "github.com/rs/zerolog"

// LogSink writes notifications to a zerolog logger
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink writing to log
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "notify").Logger()}
}

// Notify logs n at a level matching its kind
func (s *LogSink) Notify(n Notification) {
	var event *zerolog.Event
	switch n.Type {
	case KindError:
		event = s.log.Error()
	case KindLoading:
		event = s.log.Debug()
	default:
		event = s.log.Info()
	}
	event.Str("type", string(n.Type)).Msg(n.Text)
}
