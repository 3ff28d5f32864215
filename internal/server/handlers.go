package server

import (
	"encoding/json"
	"net/http"

	"golang-anomaly-detection-service/internal/detector"
	"golang-anomaly-detection-service/internal/parsers"
	"golang-anomaly-detection-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// errorResponse is the JSON error body. It mirrors the error taxonomy so API
// consumers see the same category, code, and suggestion the CLI prints.
type errorResponse struct {
	Error struct {
		Category   string `json:"category"`
		Code       string `json:"code"`
		Message    string `json:"message"`
		Suggestion string `json:"suggestion,omitempty"`
	} `json:"error"`
}

// handleAnalyze runs one analysis over the posted JSON array. The optional
// threshold query parameter overrides the approval threshold for this request
// only; the shared engine is never mutated.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	records, err := parsers.ParseJSON(r.Body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	engine := s.engine
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest,
				errors.ValidationError(errors.CodeInvalidAmount, "threshold", raw, err))
			return
		}

		config := s.engine.Config()
		config.ApprovalThreshold = threshold

		engine, err = detector.NewEngine(config)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	result, err := engine.Analyze(records)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.requestLogger(r).WithError(err).Error("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var resp errorResponse

	if detectorErr, ok := errors.AsDetectorError(err); ok {
		resp.Error.Category = string(detectorErr.Category)
		resp.Error.Code = string(detectorErr.Code)
		resp.Error.Message = detectorErr.Message
		resp.Error.Suggestion = detectorErr.Suggestion
	} else {
		resp.Error.Category = string(errors.CategoryInternal)
		resp.Error.Code = string(errors.CodeUnexpectedError)
		resp.Error.Message = err.Error()
	}

	s.requestLogger(r).WithError(err).WithField("status", status).Warn("Request failed")
	s.writeJSON(w, r, status, resp)
}
