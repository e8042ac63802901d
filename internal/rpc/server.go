package rpc

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bhall66/DacTone/internal/device"
	"github.com/bhall66/DacTone/internal/register"
	"github.com/bhall66/DacTone/internal/tone"
)

// Server implements ToneServiceServer on a device.
type Server struct {
	dev    *device.Device
	logger *zap.Logger
}

var _ ToneServiceServer = (*Server)(nil)

// NewServer creates a ToneService backed by dev.
func NewServer(dev *device.Device, logger *zap.Logger) *Server {
	return &Server{dev: dev, logger: logger}
}

// NewGRPCServer returns a grpc.Server with ToneService and the standard
// health service registered.
func NewGRPCServer(dev *device.Device, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogging(logger)))
	RegisterToneServiceServer(s, NewServer(dev, logger))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

func (s *Server) SetTone(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	hz := tone.DefaultPitch
	if note := in.GetFields()["note"].GetStringValue(); note != "" {
		hz, err = tone.ParseNote(note)
		if err != nil {
			return nil, toStatus(err)
		}
	} else if hz, err = intField(in, "hz", tone.DefaultPitch); err != nil {
		return nil, err
	}

	res, err := s.dev.SetTone(ch, hz)
	if err != nil {
		return nil, toStatus(err)
	}
	if res.Outcome == tone.OutcomeRejected {
		return nil, toStatus(res.Err)
	}
	return structpb.NewStruct(map[string]any{
		"outcome":  res.Outcome.String(),
		"hz":       res.Hz(),
		"divisor":  res.Params.Divisor,
		"step":     res.Params.Step,
		"actualHz": res.Params.ActualHz,
	})
}

func (s *Server) Stop(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	if err := s.dev.Stop(ch); err != nil {
		return nil, toStatus(err)
	}
	return s.state(ch)
}

func (s *Server) SetVolume(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	percent, err := intField(in, "percent", 100)
	if err != nil {
		return nil, err
	}
	if err := s.dev.SetVolume(ch, percent); err != nil {
		return nil, toStatus(err)
	}
	return s.state(ch)
}

func (s *Server) SetOffset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	v, err := intField(in, "value", 0)
	if err != nil {
		return nil, err
	}
	if err := s.dev.SetOffset(ch, v); err != nil {
		return nil, toStatus(err)
	}
	return s.state(ch)
}

func (s *Server) SetShape(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	code, err := intField(in, "code", int(tone.DefaultShape))
	if err != nil {
		return nil, err
	}
	if err := s.dev.SetShape(ch, code); err != nil {
		return nil, toStatus(err)
	}
	return s.state(ch)
}

func (s *Server) SetFrequency(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	div, err := intField(in, "divisor", 0)
	if err != nil {
		return nil, err
	}
	step, err := intField(in, "step", 0)
	if err != nil {
		return nil, err
	}
	p, err := s.dev.SetFrequency(ch, div, step)
	if err != nil {
		return nil, toStatus(err)
	}
	return paramsStruct(p)
}

func (s *Server) QueryFrequency(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	p, err := s.dev.QueryFrequency(ch)
	if err != nil {
		return nil, toStatus(err)
	}
	return paramsStruct(p)
}

func (s *Server) GetState(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ch, err := channelField(in)
	if err != nil {
		return nil, err
	}
	return s.state(ch)
}

func (s *Server) state(ch register.Channel) (*structpb.Struct, error) {
	st, err := s.dev.State(ch)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"channel":     int(st.Channel),
		"gpio":        st.Channel.GPIO(),
		"scale":       st.Scale,
		"offset":      st.Offset,
		"shape":       int(st.Shape),
		"enabled":     st.Enabled,
		"requestedHz": st.RequestedHz,
		"divisor":     st.Params.Divisor,
		"step":        st.Params.Step,
		"actualHz":    st.Params.ActualHz,
		"clipping":    st.Clipping,
	})
}

func paramsStruct(p tone.Params) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"divisor":  p.Divisor,
		"step":     p.Step,
		"actualHz": p.ActualHz,
	})
}

// channelField reads the required "channel" field.
func channelField(in *structpb.Struct) (register.Channel, error) {
	if _, ok := in.GetFields()["channel"]; !ok {
		return 0, status.Error(codes.InvalidArgument, "channel is required")
	}
	n, err := intField(in, "channel", 0)
	if err != nil {
		return 0, err
	}
	return register.Channel(n), nil
}

// intField reads a whole number field, returning def when it is absent.
func intField(in *structpb.Struct, key string, def int) (int, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return def, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
	f := nv.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer, got %v", key, f)
	}
	return int(f), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, device.ErrUnknownChannel):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, tone.ErrFrequencyOutOfRange),
		errors.Is(err, tone.ErrParamOutOfRange),
		errors.Is(err, tone.ErrInvalidNote):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// UnaryLogging logs every unary call with its method, code and duration.
func UnaryLogging(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Info("rpc", fields...)
		}
		return resp, err
	}
}
