package log

import "go.uber.org/zap"

// ZapLogger keeps events in memory and forwards each one to a zap logger.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Debug(event.Details,
		zap.Int("seq", l.seq),
		zap.Int("round", event.Round),
		zap.String("phase", event.Phase),
		zap.String("type", event.Type.String()),
		zap.String("actor", event.Actor),
		zap.String("command", event.Command),
		zap.Int("amount", event.Amount),
	)
}
