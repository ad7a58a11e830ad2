package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// zapLoggerAdapter bridges watermill's logging into the application's
// zap logger.
type zapLoggerAdapter struct {
	log    *zap.Logger
	fields watermill.LogFields
}

func NewZapLoggerAdapter(log *zap.Logger) watermill.LoggerAdapter {
	return &zapLoggerAdapter{
		log:    log.With(zap.String("component", "events")),
		fields: watermill.LogFields{},
	}
}

func (a *zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(a.zapFields(fields), zap.Error(err))...)
}

func (a *zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, a.zapFields(fields)...)
}

func (a *zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, a.zapFields(fields)...)
}

func (a *zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, a.zapFields(fields)...)
}

func (a *zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	combined := make(watermill.LogFields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		combined[k] = v
	}
	for k, v := range fields {
		combined[k] = v
	}
	return &zapLoggerAdapter{log: a.log, fields: combined}
}

func (a *zapLoggerAdapter) zapFields(fields watermill.LogFields) []zap.Field {
	zapFields := make([]zap.Field, 0, len(a.fields)+len(fields))
	for k, v := range a.fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}
