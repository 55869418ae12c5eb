package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/service"
)

// AskHandler handles synchronous question requests.
type AskHandler struct {
	askService service.AskService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(askService service.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	// The legal question to answer
	Question string `json:"question"`
}

// ErrorResponse represents an error response. Question echoes the request when known.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error    string `json:"error"`
	Question string `json:"question,omitempty"`
}

// ServeHTTP handles HTTP requests for synchronous questions.
//
// swagger:route POST /api/v1/ask askQuestion
//
// # Answer a question about Nigerian law
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer with sources
//	'400':
//	  description: Empty question or malformed body
//	'502':
//	  description: Language model failed
//	'503':
//	  description: Vector index or language model unavailable
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	req, ok := decodeAskRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.askService.ProcessQuestion(ctx, req.Question)
	if err != nil {
		handleServiceError(ctx, w, err, req.Question)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func decodeAskRequest(w http.ResponseWriter, r *http.Request) (AskRequest, bool) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return AskRequest{}, false
	}
	return req, true
}

// handleServiceError maps service errors to HTTP status codes. The error
// itself is logged and never returned to the client.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, question string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "invalid question", "error", err)
		writeError(w, http.StatusBadRequest, "Question cannot be empty", question)
	case errors.Is(err, service.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input", question)
	case errors.Is(err, service.ErrServiceUnavailable):
		logger.ErrorContext(ctx, "service unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "The assistant is temporarily unavailable. Please try again later.", question)
	case errors.Is(err, service.ErrExternalService):
		logger.ErrorContext(ctx, "external service error", "error", err)
		writeError(w, http.StatusBadGateway, "The language model failed to generate an answer.", question)
	default:
		logger.ErrorContext(ctx, "unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.", question)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message, question string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:    message,
		Question: question,
	})
}
