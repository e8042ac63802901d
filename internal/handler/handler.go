package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/command"
	"github.com/bhall66/DacTone/internal/device"
	"github.com/bhall66/DacTone/internal/register"
)

// maxBodyBytes bounds request bodies; a full command sequence fits easily.
const maxBodyBytes = 1 << 20

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	dev         *device.Device
	commands    *command.Router
	logger      *zap.Logger
	maxCommands int
}

// NewHandlers creates handlers operating on dev.
func NewHandlers(dev *device.Device, commands *command.Router, logger *zap.Logger, maxCommands int) *Handlers {
	return &Handlers{
		dev:         dev,
		commands:    commands,
		logger:      logger,
		maxCommands: maxCommands,
	}
}

// channelParam parses {channel} and writes a 404 when it is not configured.
func (h *Handlers) channelParam(w http.ResponseWriter, r *http.Request) (register.Channel, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "channel"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "channel must be 1 or 2")
		return 0, false
	}
	ch := register.Channel(n)
	if _, err := h.dev.Controller(ch); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return 0, false
	}
	return ch, true
}

// decodeBody decodes an optional JSON body into v; an empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps device and command errors onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, device.ErrUnknownChannel):
		return http.StatusNotFound
	case command.IsClientError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
