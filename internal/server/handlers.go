package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/leapstack-labs/leapbridge/internal/codec"
	"github.com/leapstack-labs/leapbridge/internal/gateway"
	"github.com/leapstack-labs/leapbridge/internal/generation"
)

const maxBodyBytes = 1 << 20

// Error stages reported outside the gateway.
const (
	stageRequest  = "request"
	stageCodec    = "codec"
	stageGenerate = "generate"
)

// TextRequest is the body of encode and decode.
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse carries the result of encode, decode and generate.
type TextResponse struct {
	Text string `json:"text"`
}

// GenerateRequest is the body of generate. Model is optional.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

type handlers struct {
	service Service
}

func (h *handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) Encode(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !readJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: h.service.Encode(req.Text)})
}

func (h *handlers) Decode(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !readJSON(w, r, &req) {
		return
	}
	text, err := h.service.Decode(req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: text})
}

func (h *handlers) Query(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Query(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "prompt is required", Stage: stageRequest})
		return
	}
	text, err := h.service.GenerateWith(r.Context(), req.Prompt, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: text})
}

// readJSON decodes the request body into v, answering 400 on failure.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid request body: %v", err),
			Stage: stageRequest,
		})
		return false
	}
	return true
}

// writeError maps an operation error onto a status code and error body.
func writeError(w http.ResponseWriter, err error) {
	status, stage := classify(err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Stage: stage})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, codec.ErrDecode):
		return http.StatusBadRequest, stageCodec
	case errors.Is(err, gateway.ErrConnection):
		return http.StatusBadGateway, gateway.Stage(err)
	case errors.Is(err, gateway.ErrQueryExecution):
		return http.StatusUnprocessableEntity, gateway.Stage(err)
	case errors.Is(err, gateway.ErrRowDecode):
		return http.StatusInternalServerError, gateway.Stage(err)
	case errors.Is(err, generation.ErrGeneration):
		return http.StatusBadGateway, stageGenerate
	default:
		return http.StatusInternalServerError, ""
	}
}

// writeJSON encodes v before sending the status so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
