package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/device"
	"github.com/bhall66/DacTone/internal/register"
	"github.com/bhall66/DacTone/internal/tone"
)

// MaxRest bounds a single rest command.
const MaxRest = 10 * time.Second

var (
	ErrRestTooLong = fmt.Errorf("command: rest longer than %v", MaxRest)
	ErrBadPayload  = errors.New("command: bad payload")
)

// NewDeviceRouter returns a router with the built-in commands bound to dev.
// Commands without a channel address channel 1.
func NewDeviceRouter(dev *device.Device, logger *zap.Logger) *Router {
	r := NewRouter(logger)

	r.Register(TypeTone, func(ctx context.Context, ch int, payload json.RawMessage) (Step, error) {
		var cmd Tone
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		hz, err := cmd.Frequency()
		if err != nil {
			return Step{}, err
		}
		res, err := dev.SetTone(channel(ch), hz)
		if err != nil {
			return Step{}, err
		}
		if res.Outcome == tone.OutcomeRejected {
			return Step{Channel: int(channel(ch)), Outcome: res.Outcome.String()}, res.Err
		}
		return Step{Channel: int(channel(ch)), Outcome: res.Outcome.String(), ActualHz: res.Params.ActualHz}, nil
	})

	r.Register(TypeStop, func(ctx context.Context, ch int, _ json.RawMessage) (Step, error) {
		return done(ch, dev.Stop(channel(ch)))
	})

	r.Register(TypeVolume, func(ctx context.Context, ch int, payload json.RawMessage) (Step, error) {
		var cmd Volume
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		percent := 100
		if cmd.Percent != nil {
			percent = *cmd.Percent
		}
		return done(ch, dev.SetVolume(channel(ch), percent))
	})

	r.Register(TypeOffset, func(ctx context.Context, ch int, payload json.RawMessage) (Step, error) {
		var cmd Offset
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		return done(ch, dev.SetOffset(channel(ch), cmd.Value))
	})

	r.Register(TypeShape, func(ctx context.Context, ch int, payload json.RawMessage) (Step, error) {
		var cmd Shape
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		code := int(tone.DefaultShape)
		if cmd.Code != nil {
			code = *cmd.Code
		}
		return done(ch, dev.SetShape(channel(ch), code))
	})

	r.Register(TypeFrequency, func(ctx context.Context, ch int, payload json.RawMessage) (Step, error) {
		var cmd Frequency
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		p, err := dev.SetFrequency(channel(ch), cmd.Divisor, cmd.Step)
		if err != nil {
			return Step{}, err
		}
		return Step{Channel: int(channel(ch)), Outcome: "ok", ActualHz: p.ActualHz}, nil
	})

	r.Register(TypeRest, func(ctx context.Context, _ int, payload json.RawMessage) (Step, error) {
		var cmd Rest
		if err := decode(payload, &cmd); err != nil {
			return Step{}, err
		}
		d := time.Duration(cmd.Ms) * time.Millisecond
		if d > MaxRest {
			return Step{}, fmt.Errorf("%w: %dms", ErrRestTooLong, cmd.Ms)
		}
		if err := sleep(ctx, d); err != nil {
			return Step{}, err
		}
		return Step{Outcome: "ok"}, nil
	})

	return r
}

// Frequency resolves the tone payload to hertz.
func (t Tone) Frequency() (int, error) {
	switch {
	case t.Note != "":
		return tone.ParseNote(t.Note)
	case t.Hz != nil:
		return *t.Hz, nil
	}
	return tone.DefaultPitch, nil
}

func channel(ch int) register.Channel {
	if ch == 0 {
		return register.Channel1
	}
	return register.Channel(ch)
}

func done(ch int, err error) (Step, error) {
	if err != nil {
		return Step{}, err
	}
	return Step{Channel: int(channel(ch)), Outcome: "ok"}, nil
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsClientError reports whether err was caused by the commands themselves
// rather than the device.
func IsClientError(err error) bool {
	return errors.Is(err, tone.ErrFrequencyOutOfRange) ||
		errors.Is(err, tone.ErrParamOutOfRange) ||
		errors.Is(err, device.ErrUnknownChannel) ||
		errors.Is(err, tone.ErrInvalidNote) ||
		errors.Is(err, ErrRestTooLong) ||
		errors.Is(err, ErrBadPayload)
}
