package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/rag"
	"nigerian-law-ai/internal/service"
)

// StreamHandler handles streaming question requests using Server-Sent Events.
type StreamHandler struct {
	askService service.AskService
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(askService service.AskService) *StreamHandler {
	return &StreamHandler{askService: askService}
}

// ServeHTTP streams the answer as `data: {json}` events.
//
// swagger:route POST /ask streamQuestion
//
// # Stream an answer to a question about Nigerian law
//
// Each event is a JSON object with a type of info, metadata, chunk, end or error.
//
// ---
// consumes:
// - application/json
// produces:
// - text/event-stream
// responses:
//
//	'200':
//	  description: Event stream
//	'400':
//	  description: Empty question or malformed body
//	'503':
//	  description: Vector index or language model unavailable
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported", "")
		return
	}

	req, ok := decodeAskRequest(w, r)
	if !ok {
		return
	}

	// Headers are written with the first event so that failures before it
	// can still be reported with a status code.
	started := false
	err := h.askService.StreamQuestion(ctx, req.Question, func(ev rag.StreamEvent) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			started = true
		}

		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err == nil {
		return
	}

	if !started {
		handleServiceError(ctx, w, err, req.Question)
		return
	}
	// The stream is already open; usually the client went away.
	logger.WarnContext(ctx, "stream ended early", "error", err)
}
