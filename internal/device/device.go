// Package device ties the register backend, the shared cosine generator and
// one tone controller per DAC channel together, and records logs and
// metrics for every operation the outer APIs perform.
package device

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/bhall66/DacTone/internal/audio"
	"github.com/bhall66/DacTone/internal/metrics"
	"github.com/bhall66/DacTone/internal/register"
	"github.com/bhall66/DacTone/internal/tone"
)

var ErrUnknownChannel = errors.New("device: channel not configured")

// Device owns the controllers of one chip. Its controllers share a single
// generator: a tone on any channel retunes all of them.
type Device struct {
	logger      *zap.Logger
	gen         *tone.Generator
	inspector   register.Inspector
	channels    []register.Channel
	controllers map[register.Channel]*tone.Controller
}

// Option configures a Device.
type Option func(*Device)

// WithInspector exposes the register contents through Registers.
func WithInspector(in register.Inspector) Option {
	return func(d *Device) { d.inspector = in }
}

// New constructs a controller for each channel on regs. Constructing a
// controller connects its channel to the generator, output still off.
func New(regs register.Interface, logger *zap.Logger, channels []register.Channel, opts ...Option) (*Device, error) {
	if len(channels) == 0 {
		return nil, errors.New("device: no channels")
	}
	d := &Device{
		logger:      logger,
		gen:         tone.NewGenerator(regs),
		controllers: make(map[register.Channel]*tone.Controller, len(channels)),
	}
	for _, o := range opts {
		o(d)
	}

	for _, ch := range channels {
		if _, dup := d.controllers[ch]; dup {
			continue
		}
		c, err := tone.New(d.gen, ch)
		if err != nil {
			return nil, fmt.Errorf("create controller: %w", err)
		}
		d.controllers[ch] = c
		d.channels = append(d.channels, ch)
		d.observe(c)
		logger.Info("channel ready", zap.Stringer("channel", ch), zap.Int("gpio", ch.GPIO()))
	}
	sort.Slice(d.channels, func(i, j int) bool { return d.channels[i] < d.channels[j] })
	return d, nil
}

// Channels returns the configured channels in ascending order.
func (d *Device) Channels() []register.Channel {
	out := make([]register.Channel, len(d.channels))
	copy(out, d.channels)
	return out
}

// Controller returns the controller for ch.
func (d *Device) Controller(ch register.Channel) (*tone.Controller, error) {
	c, ok := d.controllers[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, int(ch))
	}
	return c, nil
}

// SetTone plays hz on ch. A rejected request is not an error: it is
// reported through the result's outcome.
func (d *Device) SetTone(ch register.Channel, hz int) (tone.Result, error) {
	c, err := d.Controller(ch)
	if err != nil {
		return tone.Result{}, err
	}

	start := time.Now()
	res := c.SetTone(hz)
	metrics.ToneRequestsTotal.WithLabelValues(res.Outcome.String()).Inc()

	logger := d.logger.With(zap.Stringer("channel", ch), zap.Int("requestedHz", hz))
	switch res.Outcome {
	case tone.OutcomeTone:
		metrics.SolveDuration.Observe(float64(time.Since(start).Microseconds()))
		metrics.FrequencyErrorHz.Observe(math.Abs(float64(hz) - res.Params.ActualHz))
		logger.Info("tone set",
			zap.Float64("actualHz", res.Params.ActualHz),
			zap.Int("divisor", res.Params.Divisor),
			zap.Int("step", res.Params.Step),
		)
	case tone.OutcomeRejected:
		logger.Warn("tone rejected", zap.Error(res.Err))
	case tone.OutcomeSilenced:
		logger.Info("tone silenced")
	}
	d.observeAll()
	return res, nil
}

// Stop disables ch's output.
func (d *Device) Stop(ch register.Channel) error {
	c, err := d.Controller(ch)
	if err != nil {
		return err
	}
	c.Stop()
	d.logger.Info("output stopped", zap.Stringer("channel", ch))
	d.observe(c)
	return nil
}

// SetVolume sets ch's volume percentage.
func (d *Device) SetVolume(ch register.Channel, percent int) error {
	c, err := d.Controller(ch)
	if err != nil {
		return err
	}
	c.SetVolume(percent)
	d.logger.Info("volume set", zap.Stringer("channel", ch), zap.Int("percent", percent),
		zap.Int("scale", c.State().Scale))
	d.observe(c)
	return nil
}

// SetOffset sets ch's DC offset, clamped to [-128, 127].
func (d *Device) SetOffset(ch register.Channel, v int) error {
	c, err := d.Controller(ch)
	if err != nil {
		return err
	}
	c.SetOffset(v)
	st := c.State()
	d.logger.Info("offset set", zap.Stringer("channel", ch), zap.Int("requested", v),
		zap.Int("offset", st.Offset), zap.Bool("clipping", st.Clipping))
	d.observe(c)
	return nil
}

// SetShape sets ch's invert pattern.
func (d *Device) SetShape(ch register.Channel, code int) error {
	c, err := d.Controller(ch)
	if err != nil {
		return err
	}
	c.SetShape(code)
	d.logger.Info("shape set", zap.Stringer("channel", ch), zap.Int("shape", int(c.State().Shape)))
	return nil
}

// SetFrequency programs the generator directly through ch.
func (d *Device) SetFrequency(ch register.Channel, divisor, step int) (tone.Params, error) {
	c, err := d.Controller(ch)
	if err != nil {
		return tone.Params{}, err
	}
	if err := c.SetFrequencyRaw(divisor, step); err != nil {
		return tone.Params{}, err
	}
	p := c.QueryFrequency()
	d.logger.Info("frequency set", zap.Stringer("channel", ch),
		zap.Int("divisor", divisor), zap.Int("step", step), zap.Float64("actualHz", p.ActualHz))
	d.observeAll()
	return p, nil
}

// QueryFrequency returns the shared generator settings as seen from ch.
func (d *Device) QueryFrequency(ch register.Channel) (tone.Params, error) {
	c, err := d.Controller(ch)
	if err != nil {
		return tone.Params{}, err
	}
	return c.QueryFrequency(), nil
}

// State returns ch's state.
func (d *Device) State(ch register.Channel) (tone.State, error) {
	c, err := d.Controller(ch)
	if err != nil {
		return tone.State{}, err
	}
	return c.State(), nil
}

// States returns the state of every channel in ascending order.
func (d *Device) States() []tone.State {
	out := make([]tone.State, 0, len(d.channels))
	for _, ch := range d.channels {
		out = append(out, d.controllers[ch].State())
	}
	return out
}

// Waveform renders one period of ch's simulated output.
func (d *Device) Waveform(ch register.Channel, samples int) ([]physic.ElectricPotential, error) {
	c, err := d.Controller(ch)
	if err != nil {
		return nil, err
	}
	return audio.RenderCycle(c.State().ChannelState, samples), nil
}

// Registers returns the register contents, if the backend can be inspected.
func (d *Device) Registers(journal int) (register.Snapshot, bool) {
	if d.inspector == nil {
		return register.Snapshot{}, false
	}
	return d.inspector.Snapshot(journal), true
}

// Shutdown silences every channel.
func (d *Device) Shutdown() {
	for _, ch := range d.channels {
		d.controllers[ch].Stop()
		d.observe(d.controllers[ch])
	}
	d.logger.Info("device shutdown complete")
}

func (d *Device) observeAll() {
	for _, ch := range d.channels {
		d.observe(d.controllers[ch])
	}
}

func (d *Device) observe(c *tone.Controller) {
	st := c.State()
	label := strconv.Itoa(int(st.Channel))
	metrics.OutputEnabled.WithLabelValues(label).Set(boolGauge(st.Enabled))
	metrics.Clipping.WithLabelValues(label).Set(boolGauge(st.Clipping))
	metrics.FrequencyHz.Set(st.Params.ActualHz)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
