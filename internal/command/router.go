// Package command runs sequences of tone commands, the way a sketch drives
// the DAC: set a volume, play a note, rest, play the next.
package command

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/metrics"
)

// Handler executes one command. The returned step only needs Outcome and
// ActualHz; the router fills in the rest.
type Handler func(ctx context.Context, channel int, payload json.RawMessage) (Step, error)

// Router dispatches commands to registered handlers.
type Router struct {
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRouter creates a new command router.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{handlers: make(map[string]Handler), logger: logger}
}

// Register adds a handler for a specific command type.
func (r *Router) Register(cmdType string, h Handler) {
	r.handlers[cmdType] = h
}

// Dispatch parses a raw command and routes it to its handler.
func (r *Router) Dispatch(ctx context.Context, raw []byte) (Step, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Step{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return r.dispatch(ctx, 0, env)
}

// Run executes envs in order and stops at the first failing command or when
// ctx is done. It returns the steps taken, including the failing one.
func (r *Router) Run(ctx context.Context, envs []Envelope) ([]Step, error) {
	steps := make([]Step, 0, len(envs))
	for i, env := range envs {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		step, err := r.dispatch(ctx, i, env)
		steps = append(steps, step)
		if err != nil {
			return steps, fmt.Errorf("command %d (%s): %w", i, env.Type, err)
		}
	}
	return steps, nil
}

func (r *Router) dispatch(ctx context.Context, index int, env Envelope) (Step, error) {
	h, ok := r.handlers[env.Type]
	if !ok {
		r.logger.Warn("unknown command type", zap.String("type", env.Type), zap.Int("index", index))
		metrics.CommandsTotal.WithLabelValues("unknown", "skipped").Inc()
		return Step{Index: index, Type: env.Type, Channel: env.Channel, Outcome: "skipped"}, nil
	}

	step, err := h(ctx, env.Channel, env.Payload)
	step.Index, step.Type = index, env.Type
	if step.Channel == 0 {
		step.Channel = env.Channel
	}
	if err != nil {
		step.Error = err.Error()
		if step.Outcome == "" {
			step.Outcome = "error"
		}
	}
	metrics.CommandsTotal.WithLabelValues(env.Type, step.Outcome).Inc()
	return step, err
}
