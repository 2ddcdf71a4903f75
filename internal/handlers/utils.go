package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/akolanti/GoDocQA/internal/adapter"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

const maxJSONBody = 1 << 20

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, only logging is left
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, traceId string, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(message, traceId))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := ragError.HTTPStatus(err)
	log := logRH.With("traceId", traceId(r), "path", r.URL.Path, "status", code)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Warn("Request rejected", "error", err)
	}
	writeJsonResponse(w, code, adapter.ToErrorDetail(err, traceId(r)))
}

func decodeJSON(r *http.Request, dst any) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed json body: %w", ragError.ErrInvalidRequest, err)
	}
	return nil
}

func validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		logRH.Warn("context error", "traceId", ctx.Value(config.TRACE_ID_KEY), "error", err)
		return false
	}
	return true
}

func traceId(r *http.Request) string {
	id, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	return id
}

func baseName(name string) string {
	return filepath.Base(strings.ReplaceAll(name, "\\", "/"))
}
