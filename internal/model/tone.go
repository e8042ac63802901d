package model

import "github.com/bhall66/DacTone/internal/tone"

// ToneRequest is the request body for POST /v1/channels/{channel}/tone.
// Note takes precedence over Hz; an empty body plays 880 Hz.
type ToneRequest struct {
	Hz   *int   `json:"hz,omitempty"`
	Note string `json:"note,omitempty"`
}

// ToneResponse is the response for POST /v1/channels/{channel}/tone.
type ToneResponse struct {
	Outcome     string  `json:"outcome"`
	RequestedHz int     `json:"requestedHz"`
	ActualHz    float64 `json:"actualHz"`
	Hz          int     `json:"hz"`
	Divisor     int     `json:"divisor,omitempty"`
	Step        int     `json:"step,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type VolumeRequest struct {
	Percent *int `json:"percent,omitempty"`
}

type OffsetRequest struct {
	Value int `json:"value"`
}

type ShapeRequest struct {
	Code *int `json:"code,omitempty"`
}

type FrequencyRequest struct {
	Divisor int `json:"divisor"`
	Step    int `json:"step"`
}

// ChannelResponse describes one channel and the shared generator.
type ChannelResponse struct {
	tone.State
	GPIO int `json:"gpio"`
}

// ClippingResponse is the response for GET /v1/channels/{channel}/clipping.
type ClippingResponse struct {
	Clipping       bool    `json:"clipping"`
	CenterMV       float64 `json:"centerMv"`
	PeakMV         float64 `json:"peakMv"`
	TopHeadroomMV  float64 `json:"topHeadroomMv"`
	BaseHeadroomMV float64 `json:"baseHeadroomMv"`
}

// WaveformResponse is the response for GET /v1/channels/{channel}/waveform.
type WaveformResponse struct {
	Channel     int       `json:"channel"`
	FrequencyHz float64   `json:"frequencyHz"`
	SamplesMV   []float64 `json:"samplesMv"`
}
