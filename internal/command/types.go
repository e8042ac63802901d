package command

import "encoding/json"

// Envelope is one command in a sequence.
type Envelope struct {
	Type    string          `json:"type"`
	Channel int             `json:"channel,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command types bound by NewDeviceRouter.
const (
	TypeTone      = "tone"
	TypeStop      = "stop"
	TypeVolume    = "volume"
	TypeOffset    = "offset"
	TypeShape     = "shape"
	TypeFrequency = "frequency"
	TypeRest      = "rest"
)

// Tone is the payload for tone commands. Note takes precedence over Hz.
// An empty payload plays the default pitch.
type Tone struct {
	Hz   *int   `json:"hz,omitempty"`
	Note string `json:"note,omitempty"`
}

// Volume is the payload for volume commands; missing percent means 100.
type Volume struct {
	Percent *int `json:"percent,omitempty"`
}

// Offset is the payload for offset commands; missing value means 0.
type Offset struct {
	Value int `json:"value"`
}

// Shape is the payload for shape commands; missing code means sine.
type Shape struct {
	Code *int `json:"code,omitempty"`
}

// Frequency is the payload for raw generator settings.
type Frequency struct {
	Divisor int `json:"divisor"`
	Step    int `json:"step"`
}

// Rest is the payload for rest commands.
type Rest struct {
	Ms int `json:"ms"`
}

// Step reports what one command did.
type Step struct {
	Index    int     `json:"index"`
	Type     string  `json:"type"`
	Channel  int     `json:"channel,omitempty"`
	Outcome  string  `json:"outcome"`
	ActualHz float64 `json:"actualHz,omitempty"`
	Error    string  `json:"error,omitempty"`
}
