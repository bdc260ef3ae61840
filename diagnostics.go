package ecs

import "go.uber.org/zap"

// zapLogger is the tick-time diagnostics sink: dropped transform records
// are a normal, expected outcome of staged mutation under concurrency (an
// entity destroyed by one goroutine this tick, modified by another), so
// they are logged for observability rather than surfaced as Tick errors.
//
// Grounded on the AKJUS-bsc-erigon family's use of go.uber.org/zap for
// structured, leveled logging around its own tick/stage processing loops.
type zapLogger struct {
	z *zap.Logger
}

func newZapLogger(z *zap.Logger) *zapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z}
}

func (l *zapLogger) dropTransform(r TransformRecord, reason string) {
	l.z.Warn("dropped transform",
		zap.String("reason", reason),
		zap.Uint8("kind", uint8(r.Kind)),
		zap.Uint32("entity_index", r.Entity.Index),
		zap.Uint32("entity_generation", r.Entity.Generation),
	)
}

func (l *zapLogger) tickComplete(applied, dropped int) {
	l.z.Debug("tick complete", zap.Int("applied", applied), zap.Int("dropped", dropped))
}
