package tone

import (
	"sync"

	"github.com/bhall66/DacTone/internal/register"
)

// Generator is the cosine generator both DAC channels share. There is one
// divisor and one step for the whole chip, so every Controller built on the
// same Generator plays at the same frequency: changing it through one
// channel changes the other.
//
// All register writes from any of its controllers are serialized under the
// Generator's lock.
type Generator struct {
	mu          sync.Mutex
	regs        register.Interface
	requestedHz int
	params      Params
}

// NewGenerator binds a generator to a register interface. Use one
// Generator per physical chip.
func NewGenerator(regs register.Interface) *Generator {
	return &Generator{regs: regs}
}

// Params returns the last programmed divisor, step and actual frequency.
func (g *Generator) Params() Params {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.params
}

// RequestedHz returns the frequency last asked for, 0 if none.
func (g *Generator) RequestedHz() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestedHz
}

// program writes divisor then step. Caller holds g.mu.
func (g *Generator) program(requestedHz int, p Params) {
	g.requestedHz = requestedHz
	g.params = p
	g.regs.SetClockDivisor(uint8(p.Divisor))
	g.regs.SetFrequencyStep(uint16(p.Step))
}
