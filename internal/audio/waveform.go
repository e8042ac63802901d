// Package audio renders the simulated output of the DAC cosine generator.
package audio

import (
	"math"

	"periph.io/x/conn/v3/physic"

	"github.com/bhall66/DacTone/internal/tone"
)

const (
	DefaultCycleSamples = 64
	MaxCycleSamples     = 4096

	// generator amplitude before scaling, in signed 8-bit units
	cosineAmplitude = 127
	fullScaleCode   = 255
)

// bits XOR-ed into the generator output for each shape
var invertMask = [4]uint8{
	tone.ShapeDirect:    0x00,
	tone.ShapeInvertAll: 0xFF,
	tone.ShapeSine:      0x80,
	tone.ShapeInvertLow: 0x7F,
}

// Code returns the 8-bit DAC code for a generator phase in radians.
//
// The generator emits a signed cosine, shifted right by the scale code. The
// invert pattern is XOR-ed in (MSB inversion turns it into offset binary
// around mid-rail) and the DC offset added, saturating at the rails.
func Code(st tone.ChannelState, phase float64) uint8 {
	raw := int8(math.Round(cosineAmplitude * math.Cos(phase)))
	v := raw >> uint(st.Scale&0x03)
	code := int(uint8(v)^invertMask[st.Shape&0x03]) + st.Offset
	return uint8(max(0, min(fullScaleCode, code)))
}

// Voltage converts a DAC code to its output voltage.
func Voltage(code uint8) physic.ElectricPotential {
	return physic.ElectricPotential(code) * tone.RailHigh / fullScaleCode
}

// RenderCycle returns one period of the channel's output voltage sampled at
// n evenly spaced phases. n is clamped to [1, MaxCycleSamples].
func RenderCycle(st tone.ChannelState, n int) []physic.ElectricPotential {
	n = max(1, min(MaxCycleSamples, n))
	out := make([]physic.ElectricPotential, n)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / float64(n)
		out[i] = Voltage(Code(st, phase))
	}
	return out
}
