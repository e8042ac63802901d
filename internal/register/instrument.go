package register

import (
	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/metrics"
)

type instrumented struct {
	next   Interface
	logger *zap.Logger
}

// Instrument wraps next so every call is counted in
// dactone_register_writes_total and logged at debug level.
func Instrument(next Interface, logger *zap.Logger) Interface {
	return &instrumented{next: next, logger: logger.Named("register")}
}

func (r *instrumented) record(op string, fields ...zap.Field) {
	metrics.RegisterWritesTotal.WithLabelValues(op).Inc()
	r.logger.Debug(op, fields...)
}

func (r *instrumented) EnableToneGenerator(ch Channel) {
	r.record("enable_tone_generator", zap.Stringer("channel", ch))
	r.next.EnableToneGenerator(ch)
}

func (r *instrumented) SetClockDivisor(v uint8) {
	r.record("set_clock_divisor", zap.Uint8("divisor", v))
	r.next.SetClockDivisor(v)
}

func (r *instrumented) SetFrequencyStep(v uint16) {
	r.record("set_frequency_step", zap.Uint16("step", v))
	r.next.SetFrequencyStep(v)
}

func (r *instrumented) SetChannelOutputEnabled(ch Channel, on bool) {
	r.record("set_output_enabled", zap.Stringer("channel", ch), zap.Bool("on", on))
	r.next.SetChannelOutputEnabled(ch, on)
}

func (r *instrumented) SetChannelVolumeScale(ch Channel, code uint8) {
	r.record("set_volume_scale", zap.Stringer("channel", ch), zap.Uint8("scale", code))
	r.next.SetChannelVolumeScale(ch, code)
}

func (r *instrumented) SetChannelOffset(ch Channel, v int8) {
	r.record("set_offset", zap.Stringer("channel", ch), zap.Int8("offset", v))
	r.next.SetChannelOffset(ch, v)
}

func (r *instrumented) SetChannelInvertPattern(ch Channel, code uint8) {
	r.record("set_invert_pattern", zap.Stringer("channel", ch), zap.Uint8("invert", code))
	r.next.SetChannelInvertPattern(ch, code)
}
