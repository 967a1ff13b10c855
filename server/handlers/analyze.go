// Package handlers provides the HTTP handlers for the Platewise server: the
// meal analysis endpoint and the unauthenticated liveness and health routes.
//
// The package follows these design principles:
// 1. Consistent error handling using the errors package
// 2. Structured logging with request IDs
// 3. Clear request validation before any backend call
// 4. A fixed, complete response shape on every success
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/platewise/platewise/errors"
	"github.com/platewise/platewise/server/metrics"
	"github.com/platewise/platewise/server/middleware"
	"github.com/platewise/platewise/server/processing"
)

// AnalyzeRequest is the wire shape of the analysis request body. Both fields
// are optional individually; at least one must be present.
type AnalyzeRequest struct {
	// Description is the free-text meal description.
	Description string `json:"description"`

	// ImageBase64 carries base64-encoded image bytes, optionally as a
	// data: URL. JPEG is assumed when the bytes are not recognizable.
	ImageBase64 string `json:"imageBase64"`
}

// AnalyzeHandler handles meal analysis requests. Each request has exactly
// three terminal outcomes: 400 when no input was supplied, 200 with the flat
// nutrition estimate, or 500 with the generic failure body for any internal
// error.
type AnalyzeHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAnalyzeHandler creates a new analysis handler with the given processor,
// logger, and metrics. All three are required.
func NewAnalyzeHandler(processor *processing.Processor, logger *zap.Logger, m *metrics.Metrics) *AnalyzeHandler {
	return &AnalyzeHandler{
		processor: processor,
		logger:    logger,
		metrics:   m,
	}
}

// ServeHTTP implements http.Handler.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.FromContext(r.Context())

	if r.Method != http.MethodPost {
		apierrors.WriteError(w, apierrors.NewError(
			apierrors.ValidationError,
			"Method not allowed",
			http.StatusMethodNotAllowed,
			requestID,
			map[string]interface{}{"allowed_methods": []string{"POST"}},
			nil,
		))
		return
	}

	logger := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("request body over cap", zap.Int64("limit", maxBytesErr.Limit))
			apierrors.WriteError(w, apierrors.NewError(
				apierrors.ValidationError,
				"Request body too large",
				http.StatusRequestEntityTooLarge,
				requestID,
				nil,
				err,
			))
			return
		}
		logger.Warn("malformed request body", zap.Error(err))
		apierrors.WriteError(w, apierrors.NewValidationError(requestID, "Invalid request body", nil))
		return
	}

	query, ok := h.buildQuery(w, req, requestID, logger)
	if !ok {
		return
	}

	estimate, err := h.processor.Analyze(r.Context(), query)
	if err != nil {
		// Root cause is logged with the request ID; the client only ever
		// sees the generic failure body.
		apierrors.LogError(logger, err, requestID)
		switch {
		case errors.Is(err, processing.ErrBadReply):
			h.metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeBadReply).Inc()
		default:
			h.metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeProviderError).Inc()
		}
		apierrors.WriteError(w, apierrors.NewProviderError(requestID, "AI analysis failed", err))
		return
	}

	h.metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(estimate); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// buildQuery validates the request and decodes the image payload. It writes
// the 400 response itself and returns ok=false when the request is unusable.
func (h *AnalyzeHandler) buildQuery(w http.ResponseWriter, req AnalyzeRequest, requestID string, logger *zap.Logger) (processing.MealQuery, bool) {
	query := processing.MealQuery{Description: req.Description}

	if req.ImageBase64 != "" {
		image, hint, err := decodeImageBase64(req.ImageBase64)
		if err != nil {
			logger.Warn("undecodable image payload", zap.Error(err))
			h.metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeValidationFailed).Inc()
			apierrors.WriteError(w, apierrors.NewValidationError(requestID, "Invalid image encoding", nil))
			return processing.MealQuery{}, false
		}
		query.Image = image
		query.ImageMIME = detectImageMIME(hint, image)
	}

	if query.Empty() {
		h.metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeValidationFailed).Inc()
		apierrors.WriteError(w, apierrors.NewValidationError(requestID, "Description or image required", map[string]interface{}{
			"fields": []string{"description", "imageBase64"},
		}))
		return processing.MealQuery{}, false
	}

	return query, true
}
