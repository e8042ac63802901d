package tone

import "periph.io/x/conn/v3/physic"

const (
	RailHigh   = 3300 * physic.MilliVolt
	Midpoint   = 1650 * physic.MilliVolt
	OffsetStep = 13 * physic.MilliVolt
)

// peak voltage of the sine at each scale code
var peakVoltage = [4]physic.ElectricPotential{
	1600 * physic.MilliVolt,
	850 * physic.MilliVolt,
	500 * physic.MilliVolt,
	280 * physic.MilliVolt,
}

// PeakVoltage returns the amplitude produced by a scale code.
func PeakVoltage(scale int) physic.ElectricPotential {
	return peakVoltage[scale&0x03]
}

// Center returns the waveform centerline for a DC offset.
func Center(offset int) physic.ElectricPotential {
	return Midpoint + physic.ElectricPotential(offset)*OffsetStep
}

// Headroom returns the margins between the waveform's extremes and the
// rails. A negative margin means that side is clipped.
func Headroom(scale, offset int) (top, bottom physic.ElectricPotential) {
	center, peak := Center(offset), PeakVoltage(scale)
	return RailHigh - (center + peak), center - peak
}

// Clipping reports whether a sine at this scale and offset would be driven
// past 3.3V or below 0V.
func Clipping(scale, offset int) bool {
	top, bottom := Headroom(scale, offset)
	return top < 0 || bottom < 0
}
