package handler

import (
	"net/http"
	"strconv"

	"periph.io/x/conn/v3/physic"

	"github.com/bhall66/DacTone/internal/model"
	"github.com/bhall66/DacTone/internal/tone"
)

// ListChannels handles GET /v1/channels.
func (h *Handlers) ListChannels(w http.ResponseWriter, r *http.Request) {
	states := h.dev.States()
	resp := make([]model.ChannelResponse, 0, len(states))
	for _, st := range states {
		resp = append(resp, model.ChannelResponse{State: st, GPIO: st.Channel.GPIO()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetChannel handles GET /v1/channels/{channel}.
func (h *Handlers) GetChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	st, err := h.dev.State(ch)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.ChannelResponse{State: st, GPIO: ch.GPIO()})
}

// PostTone handles POST /v1/channels/{channel}/tone.
// A frequency outside 1..5000 Hz answers 422 with outcome "rejected"; 0 silences.
func (h *Handlers) PostTone(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	var req model.ToneRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hz := tone.DefaultPitch
	switch {
	case req.Note != "":
		n, err := tone.ParseNote(req.Note)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		hz = n
	case req.Hz != nil:
		hz = *req.Hz
	}

	res, err := h.dev.SetTone(ch, hz)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	resp := model.ToneResponse{
		Outcome:     res.Outcome.String(),
		RequestedHz: hz,
		ActualHz:    res.Params.ActualHz,
		Hz:          res.Hz(),
		Divisor:     res.Params.Divisor,
		Step:        res.Params.Step,
	}
	status := http.StatusOK
	if res.Outcome == tone.OutcomeRejected {
		resp.Error = res.Err.Error()
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// PostStop handles POST /v1/channels/{channel}/stop.
func (h *Handlers) PostStop(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	if err := h.dev.Stop(ch); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	h.GetChannel(w, r)
}

// PutVolume handles PUT /v1/channels/{channel}/volume.
func (h *Handlers) PutVolume(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	var req model.VolumeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	percent := 100
	if req.Percent != nil {
		percent = *req.Percent
	}
	if err := h.dev.SetVolume(ch, percent); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	h.GetChannel(w, r)
}

// PutOffset handles PUT /v1/channels/{channel}/offset.
func (h *Handlers) PutOffset(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	var req model.OffsetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.dev.SetOffset(ch, req.Value); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	h.GetChannel(w, r)
}

// PutShape handles PUT /v1/channels/{channel}/shape.
func (h *Handlers) PutShape(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	var req model.ShapeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	code := int(tone.DefaultShape)
	if req.Code != nil {
		code = *req.Code
	}
	if err := h.dev.SetShape(ch, code); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	h.GetChannel(w, r)
}

// PutFrequency handles PUT /v1/channels/{channel}/frequency.
func (h *Handlers) PutFrequency(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	var req model.FrequencyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.dev.SetFrequency(ch, req.Divisor, req.Step)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetFrequency handles GET /v1/channels/{channel}/frequency.
func (h *Handlers) GetFrequency(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	p, err := h.dev.QueryFrequency(ch)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetClipping handles GET /v1/channels/{channel}/clipping.
func (h *Handlers) GetClipping(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	st, err := h.dev.State(ch)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	top, base := tone.Headroom(st.Scale, st.Offset)
	writeJSON(w, http.StatusOK, model.ClippingResponse{
		Clipping:       st.Clipping,
		CenterMV:       millivolts(tone.Center(st.Offset)),
		PeakMV:         millivolts(tone.PeakVoltage(st.Scale)),
		TopHeadroomMV:  millivolts(top),
		BaseHeadroomMV: millivolts(base),
	})
}

// GetWaveform handles GET /v1/channels/{channel}/waveform?samples=N.
func (h *Handlers) GetWaveform(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	samples := 64
	if s := r.URL.Query().Get("samples"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "samples must be a positive integer")
			return
		}
		samples = n
	}

	wave, err := h.dev.Waveform(ch, samples)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	p, _ := h.dev.QueryFrequency(ch)
	resp := model.WaveformResponse{
		Channel:     int(ch),
		FrequencyHz: p.ActualHz,
		SamplesMV:   make([]float64, len(wave)),
	}
	for i, v := range wave {
		resp.SamplesMV[i] = millivolts(v)
	}
	writeJSON(w, http.StatusOK, resp)
}

func millivolts(v physic.ElectricPotential) float64 {
	return float64(v) / float64(physic.MilliVolt)
}
