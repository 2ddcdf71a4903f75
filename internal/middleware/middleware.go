package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/GoDocQA/internal/adapter/utils"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/handlers"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get(config.TRACE_ID_HEADER)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(config.TRACE_ID_HEADER, trace)
	re.writer.Header().Set(config.TRACE_ID_HEADER, trace)
	re.req = req.WithContext(ctx)
	re.traceId = trace

	re.logger.Debug("trace middleware injected")
	return re
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	if c.limiter == nil {
		return re
	}
	re.logger.Debug("Rate limiter middleware")
	ip := clientIP(re.req)

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
		return re
	}
	return re
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", clientIP(re.req))
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.traceId, re.badRequest.errorMessage)
}
