package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"github.com/go-chi/cors"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
	traceId    string
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Chain runs every api request through trace injection, rate limiting and request metrics.
type Chain struct {
	limiter *IPRateLimiter
}

// NewChain takes a nil limiter to disable rate limiting.
func NewChain(limiter *IPRateLimiter) *Chain {
	return &Chain{limiter: limiter}
}

func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := metrics.NewStatusRecorder(w)
		re := c.processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
		re.logger.Info("Request served", "method", r.Method, "path", r.URL.Path, "status", rec.Status, "duration", time.Since(start))
	}
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	return c.rateLimiter(re)
}

// Cors allows every origin when origins is empty or contains "*".
func Cors(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
