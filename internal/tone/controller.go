package tone

import (
	"errors"
	"fmt"
	"math"

	"github.com/bhall66/DacTone/internal/register"
)

var (
	ErrInvalidChannel      = errors.New("tone: invalid channel")
	ErrFrequencyOutOfRange = fmt.Errorf("tone: frequency outside [%d, %d] Hz", MinFrequency, MaxFrequency)
	ErrParamOutOfRange     = fmt.Errorf("tone: divisor must be 0..%d and step %d..%d", MaxDivisor, MinStep, MaxStep)
)

// Shape is the 2-bit invert pattern applied to the generator output.
type Shape uint8

const (
	ShapeDirect    Shape = 0 // no bits inverted
	ShapeInvertAll Shape = 1
	ShapeSine      Shape = 2 // MSB inverted
	ShapeInvertLow Shape = 3 // all bits but the MSB inverted
)

// DefaultShape is the only pattern that yields a sine. The others wrap the
// signed generator output into odd waveforms, useful for sound effects.
const DefaultShape = ShapeSine

// Outcome classifies a tone request.
type Outcome int

const (
	OutcomeTone Outcome = iota
	OutcomeSilenced
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTone:
		return "tone"
	case OutcomeSilenced:
		return "silenced"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the answer to SetTone.
type Result struct {
	Outcome Outcome
	Params  Params // set when Outcome is OutcomeTone
	Err     error  // set when Outcome is OutcomeRejected
}

// Hz returns the achieved frequency truncated to whole hertz, or 0 for a
// silenced or rejected request.
func (r Result) Hz() int {
	if r.Outcome != OutcomeTone {
		return 0
	}
	return int(r.Params.ActualHz)
}

// ChannelState is the per-channel part of a controller's state.
type ChannelState struct {
	Channel register.Channel `json:"channel"`
	Scale   int              `json:"scale"`
	Offset  int              `json:"offset"`
	Shape   Shape            `json:"shape"`
	Enabled bool             `json:"enabled"`
}

// State is a snapshot of a controller including the shared generator.
type State struct {
	ChannelState
	RequestedHz int    `json:"requestedHz"`
	Params      Params `json:"params"`
	Clipping    bool   `json:"clipping"`
}

// Controller plays tones on one DAC channel. Frequency settings live in the
// shared Generator; volume, offset, shape and output enable are this
// channel's own.
type Controller struct {
	gen *Generator
	st  ChannelState
}

// New binds a controller to ch, resets it to full volume, zero offset and
// sine shape with the output off, and connects the generator to the
// channel.
func New(gen *Generator, ch register.Channel) (*Controller, error) {
	if !ch.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, int(ch))
	}
	c := &Controller{
		gen: gen,
		st:  ChannelState{Channel: ch, Shape: DefaultShape},
	}

	gen.mu.Lock()
	defer gen.mu.Unlock()
	gen.regs.EnableToneGenerator(ch)
	gen.regs.SetChannelVolumeScale(ch, uint8(c.st.Scale))
	gen.regs.SetChannelOffset(ch, int8(c.st.Offset))
	gen.regs.SetChannelInvertPattern(ch, uint8(c.st.Shape))
	return c, nil
}

// Channel returns the channel the controller drives.
func (c *Controller) Channel() register.Channel {
	return c.st.Channel
}

// SetTone plays hz on this channel. 0 stops the output; a frequency outside
// [MinFrequency, MaxFrequency] is rejected without touching any state.
// Both channels change pitch, since they share the generator.
func (c *Controller) SetTone(hz int) Result {
	if hz == 0 {
		c.Stop()
		return Result{Outcome: OutcomeSilenced}
	}
	if hz < MinFrequency || hz > MaxFrequency {
		return Result{Outcome: OutcomeRejected, Err: fmt.Errorf("%w: %d", ErrFrequencyOutOfRange, hz)}
	}

	p := Solve(hz)

	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	c.gen.program(hz, p)
	c.setEnabled(true)
	return Result{Outcome: OutcomeTone, Params: p}
}

// SetFrequencyRaw programs the generator directly, skipping the search.
func (c *Controller) SetFrequencyRaw(divisor, step int) error {
	if !ValidParams(divisor, step) {
		return fmt.Errorf("%w: divisor %d step %d", ErrParamOutOfRange, divisor, step)
	}
	p := Params{Divisor: divisor, Step: step, ActualHz: FrequencyOf(divisor, step)}

	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	c.gen.program(int(math.Round(p.ActualHz)), p)
	c.setEnabled(true)
	return nil
}

// Stop disables this channel's output. Frequency, volume, offset and shape
// are kept.
func (c *Controller) Stop() {
	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	c.setEnabled(false)
}

// setEnabled requires c.gen.mu.
func (c *Controller) setEnabled(on bool) {
	c.st.Enabled = on
	c.gen.regs.SetChannelOutputEnabled(c.st.Channel, on)
}

// ScaleForVolume maps a volume percentage onto a scale code. ok is false
// for percent <= 0, which means silence rather than any scale.
func ScaleForVolume(percent int) (scale int, ok bool) {
	switch {
	case percent <= 0:
		return 0, false
	case percent < 25:
		return 3, true
	case percent < 50:
		return 2, true
	case percent < 100:
		return 1, true
	}
	return 0, true
}

// SetVolume sets this channel's amplitude: 100 and above is full scale,
// then 50, 25 and 12.5 percent. 0 or less stops the output.
func (c *Controller) SetVolume(percent int) {
	scale, ok := ScaleForVolume(percent)

	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	if !ok {
		c.setEnabled(false)
		return
	}
	c.st.Scale = scale
	c.gen.regs.SetChannelVolumeScale(c.st.Channel, uint8(scale))
}

// SetOffset shifts the waveform center by about 13mV per unit from 1.65V.
// v is clamped to [-128, 127].
func (c *Controller) SetOffset(v int) {
	v = max(-128, min(127, v))

	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	c.st.Offset = v
	c.gen.regs.SetChannelOffset(c.st.Channel, int8(v))
}

// SetShape selects the invert pattern from the low two bits of code.
func (c *Controller) SetShape(code int) {
	shape := Shape(code & 0x03)

	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	c.st.Shape = shape
	c.gen.regs.SetChannelInvertPattern(c.st.Channel, uint8(shape))
}

// QueryFrequency returns the generator settings last programmed through
// either channel.
func (c *Controller) QueryFrequency() Params {
	return c.gen.Params()
}

// IsClipping reports whether the current volume and offset push the
// waveform past the rails.
func (c *Controller) IsClipping() bool {
	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	return Clipping(c.st.Scale, c.st.Offset)
}

// State returns a snapshot of the channel and the shared generator.
func (c *Controller) State() State {
	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	return State{
		ChannelState: c.st,
		RequestedHz:  c.gen.requestedHz,
		Params:       c.gen.params,
		Clipping:     Clipping(c.st.Scale, c.st.Offset),
	}
}
