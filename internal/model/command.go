package model

import "github.com/bhall66/DacTone/internal/command"

// CommandsResponse is the response for POST /v1/commands.
type CommandsResponse struct {
	Steps []command.Step `json:"steps"`
	Error string         `json:"error,omitempty"`
}
