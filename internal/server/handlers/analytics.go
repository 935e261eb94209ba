// internal/server/handlers/analytics.go

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
	"chanalytics/internal/logging"
	"chanalytics/internal/validation"
)

// maxRecordBytes bounds the size of a posted channel record
const maxRecordBytes = 10 << 20

// AnalyticsHandler handles analytics-related HTTP requests
type AnalyticsHandler struct {
	service analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// AnalyzeChannel runs the pipeline for a stored channel
func (h *AnalyticsHandler) AnalyzeChannel(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("channel"))
	if title == "" {
		respondWithError(w, r, http.StatusBadRequest, "Missing channel parameter", nil)
		return
	}

	report, err := h.service.AnalyzeChannel(r.Context(), title)
	if err != nil {
		respondWithServiceError(w, r, "Failed to analyze channel", err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// AnalyzeRecord runs the pipeline for a channel record in the request body
func (h *AnalyticsHandler) AnalyzeRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordBytes)

	var ch channel.Channel
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validation.ValidateStruct(ch); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "Invalid channel record",
				"fields": verr.Fields,
			})
			return
		}
		respondWithError(w, r, http.StatusBadRequest, "Invalid channel record", err)
		return
	}

	report, err := h.service.AnalyzeSnapshot(r.Context(), ch)
	if err != nil {
		respondWithServiceError(w, r, "Failed to analyze channel", err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetReport returns a stored report by ID
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, r, http.StatusBadRequest, "Missing report ID", nil)
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Failed to get report", err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// ListReports returns recent report summaries for a channel
func (h *AnalyticsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("channel"))
	if title == "" {
		respondWithError(w, r, http.StatusBadRequest, "Missing channel parameter", nil)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			respondWithError(w, r, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = l
	}

	reports, err := h.service.ListReports(r.Context(), title, limit)
	if err != nil {
		respondWithServiceError(w, r, "Failed to list reports", err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// statusOf maps a service error to an HTTP status code
func statusOf(err error) int {
	switch {
	case errors.Is(err, analytics.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, analytics.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analytics.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondWithServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	code := statusOf(err)
	switch code {
	case http.StatusBadRequest:
		message = "Missing input"
	case http.StatusNotFound:
		message = "Not found"
	case http.StatusUnprocessableEntity:
		message = "Insufficient data for analysis"
	}
	respondWithError(w, r, code, message, err)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil {
		if code >= 500 {
			logging.Ctx(r.Context()).Error().Err(err).Int("status", code).Str("path", r.URL.Path).Msg(message)
		} else {
			response["detail"] = err.Error()
		}
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
