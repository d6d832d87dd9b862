package bus

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// loggerAdapter bridges watermill's logging onto zerolog.
type loggerAdapter struct {
	log zerolog.Logger
}

// NewLoggerAdapter wraps a zerolog.Logger as a watermill.LoggerAdapter.
func NewLoggerAdapter(log zerolog.Logger) watermill.LoggerAdapter {
	return loggerAdapter{log: log}
}

func (l loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.emit(l.log.Error().Err(err), msg, fields)
}

func (l loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.emit(l.log.Info(), msg, fields)
}

func (l loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.emit(l.log.Debug(), msg, fields)
}

func (l loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.emit(l.log.Trace(), msg, fields)
}

func (l loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return loggerAdapter{log: ctx.Logger()}
}

func (l loggerAdapter) emit(event *zerolog.Event, msg string, fields watermill.LogFields) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
