package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/command"
	"github.com/bhall66/DacTone/internal/middleware"
	"github.com/bhall66/DacTone/internal/model"
)

// PostCommands handles POST /v1/commands. The body is a JSON array of
// command envelopes, run in order until one fails.
func (h *Handlers) PostCommands(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return
	}
	var envs []command.Envelope
	if err := json.Unmarshal(body, &envs); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}
	if len(envs) == 0 {
		writeError(w, http.StatusBadRequest, "no commands")
		return
	}
	if len(envs) > h.maxCommands {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d commands per request", h.maxCommands))
		return
	}

	logger := h.logger.With(zap.String("request_id", middleware.GetRequestID(r.Context())))
	steps, err := h.commands.Run(r.Context(), envs)
	if err != nil {
		logger.Warn("command sequence stopped", zap.Int("completed", len(steps)), zap.Error(err))
		status := http.StatusInternalServerError
		if command.IsClientError(err) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, model.CommandsResponse{Steps: steps, Error: err.Error()})
		return
	}

	logger.Info("command sequence done", zap.Int("steps", len(steps)))
	writeJSON(w, http.StatusOK, model.CommandsResponse{Steps: steps})
}

// GetRegisters handles GET /v1/registers?journal=N. journal=0 returns the
// whole retained journal.
func (h *Handlers) GetRegisters(w http.ResponseWriter, r *http.Request) {
	journal := 32
	if s := r.URL.Query().Get("journal"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "journal must be a non-negative integer")
			return
		}
		journal = n
	}
	snap, ok := h.dev.Registers(journal)
	if !ok {
		writeError(w, http.StatusNotImplemented, "register backend cannot be inspected")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
