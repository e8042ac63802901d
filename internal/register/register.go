// Package register is the hardware side of the DAC tone generator: the
// register interface the tone controllers program, and an in-memory model
// of the ESP32 registers behind it.
package register

import (
	"fmt"
)

// Channel selects one of the two DAC outputs.
type Channel int

const (
	Channel1 Channel = 1 // GPIO25
	Channel2 Channel = 2 // GPIO26
)

// Valid reports whether c names a DAC output.
func (c Channel) Valid() bool {
	return c == Channel1 || c == Channel2
}

// GPIO returns the pad the channel drives, or 0 for an invalid channel.
func (c Channel) GPIO() int {
	switch c {
	case Channel1:
		return 25
	case Channel2:
		return 26
	}
	return 0
}

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("DAC?(%d)", int(c))
	}
	return fmt.Sprintf("DAC%d", int(c))
}

// Interface is the set of register operations a tone controller needs.
// Implementations encode them onto the platform's registers; writes are
// assumed to always succeed.
type Interface interface {
	// EnableToneGenerator switches on the cosine generator shared by both
	// channels and connects it to ch.
	EnableToneGenerator(ch Channel)
	SetClockDivisor(v uint8)
	SetFrequencyStep(v uint16)
	SetChannelOutputEnabled(ch Channel, on bool)
	SetChannelVolumeScale(ch Channel, code uint8)
	SetChannelOffset(ch Channel, v int8)
	SetChannelInvertPattern(ch Channel, code uint8)
}

// Inspector exposes the current register contents and recent writes.
type Inspector interface {
	Snapshot(journal int) Snapshot
}

// Snapshot is a point-in-time view of a register file.
type Snapshot struct {
	Words   []Word  `json:"words"`
	Journal []Write `json:"journal"`
	Written uint64  `json:"written"`
}

// Word is the content of one 32-bit register.
type Word struct {
	Addr  Addr   `json:"addr"`
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}
