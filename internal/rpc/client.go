package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bhall66/DacTone/internal/register"
	"github.com/bhall66/DacTone/internal/tone"
)

// Client calls ToneService on a remote daemon.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// NewClient connects to the ToneService at addr without transport security.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientFromConn wraps an existing connection. Close leaves cc open.
func NewClientFromConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close shuts down the connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetTone plays hz on ch and returns the generator settings chosen. Use Stop
// to silence a channel.
func (c *Client) SetTone(ctx context.Context, ch register.Channel, hz int) (tone.Params, error) {
	out, err := c.call(ctx, MethodSetTone, map[string]any{"channel": int(ch), "hz": hz})
	if err != nil {
		return tone.Params{}, err
	}
	return params(out), nil
}

// PlayNote plays a named note such as "A4" or "C#5" on ch.
func (c *Client) PlayNote(ctx context.Context, ch register.Channel, note string) (tone.Params, error) {
	out, err := c.call(ctx, MethodSetTone, map[string]any{"channel": int(ch), "note": note})
	if err != nil {
		return tone.Params{}, err
	}
	return params(out), nil
}

func (c *Client) Stop(ctx context.Context, ch register.Channel) (tone.State, error) {
	return c.stateCall(ctx, MethodStop, map[string]any{"channel": int(ch)})
}

func (c *Client) SetVolume(ctx context.Context, ch register.Channel, percent int) (tone.State, error) {
	return c.stateCall(ctx, MethodSetVolume, map[string]any{"channel": int(ch), "percent": percent})
}

func (c *Client) SetOffset(ctx context.Context, ch register.Channel, v int) (tone.State, error) {
	return c.stateCall(ctx, MethodSetOffset, map[string]any{"channel": int(ch), "value": v})
}

func (c *Client) SetShape(ctx context.Context, ch register.Channel, code int) (tone.State, error) {
	return c.stateCall(ctx, MethodSetShape, map[string]any{"channel": int(ch), "code": code})
}

func (c *Client) SetFrequency(ctx context.Context, ch register.Channel, divisor, step int) (tone.Params, error) {
	out, err := c.call(ctx, MethodSetFrequency, map[string]any{"channel": int(ch), "divisor": divisor, "step": step})
	if err != nil {
		return tone.Params{}, err
	}
	return params(out), nil
}

func (c *Client) QueryFrequency(ctx context.Context, ch register.Channel) (tone.Params, error) {
	out, err := c.call(ctx, MethodQueryFrequency, map[string]any{"channel": int(ch)})
	if err != nil {
		return tone.Params{}, err
	}
	return params(out), nil
}

func (c *Client) GetState(ctx context.Context, ch register.Channel) (tone.State, error) {
	return c.stateCall(ctx, MethodGetState, map[string]any{"channel": int(ch)})
}

func (c *Client) stateCall(ctx context.Context, method string, req map[string]any) (tone.State, error) {
	out, err := c.call(ctx, method, req)
	if err != nil {
		return tone.State{}, err
	}
	f := out.GetFields()
	num := func(k string) int { return int(f[k].GetNumberValue()) }
	return tone.State{
		ChannelState: tone.ChannelState{
			Channel: register.Channel(num("channel")),
			Scale:   num("scale"),
			Offset:  num("offset"),
			Shape:   tone.Shape(num("shape")),
			Enabled: f["enabled"].GetBoolValue(),
		},
		RequestedHz: num("requestedHz"),
		Params:      params(out),
		Clipping:    f["clipping"].GetBoolValue(),
	}, nil
}

func params(s *structpb.Struct) tone.Params {
	f := s.GetFields()
	return tone.Params{
		Divisor:  int(f["divisor"].GetNumberValue()),
		Step:     int(f["step"].GetNumberValue()),
		ActualHz: f["actualHz"].GetNumberValue(),
	}
}
