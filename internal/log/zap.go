package log

import (
	"go.uber.org/zap"
)

// ZapLogger records events in memory and forwards each one to a zap logger.
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
	e := l.record(event)
	fields := []zap.Field{
		zap.Int("seq", e.Seq),
		zap.Int("turn", e.Turn),
		zap.String("phase", e.Phase),
		zap.String("player", PlayerName(e.Player)),
		zap.String("type", e.Type.String()),
	}
	if e.Card != "" {
		fields = append(fields, zap.String("card", e.Card))
	}
	if e.Rule != "" {
		fields = append(fields, zap.String("rule", e.Rule))
	}
	if e.Amount != 0 {
		fields = append(fields, zap.Float64("amount", e.Amount))
	}
	l.z.Info(e.Details, fields...)
}
