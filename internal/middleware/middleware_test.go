package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/GoDocQA/internal/config"
)

func echoTrace(w http.ResponseWriter, r *http.Request) {
	id, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte(id))
}

func TestWrap_InjectsTrace(t *testing.T) {
	h := NewChain(nil).Wrap(echoTrace)

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rr.Code != http.StatusTeapot {
			t.Fatalf("status got %d", rr.Code)
		}
		trace := rr.Header().Get(config.TRACE_ID_HEADER)
		if trace == "" || rr.Body.String() != trace {
			t.Errorf("context trace %q, header trace %q", rr.Body.String(), trace)
		}
	})

	t.Run("kept from the client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(config.TRACE_ID_HEADER, "abc-123")
		rr := httptest.NewRecorder()
		h(rr, req)

		if rr.Body.String() != "abc-123" || rr.Header().Get(config.TRACE_ID_HEADER) != "abc-123" {
			t.Errorf("trace not propagated: body %q header %q", rr.Body.String(), rr.Header().Get(config.TRACE_ID_HEADER))
		}
	})
}

func TestWrap_RateLimit(t *testing.T) {
	h := NewChain(NewIPRateLimiter(0.001, 1)).Wrap(echoTrace)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/query", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h(rr, req)
		return rr
	}

	if rr := send("10.0.0.1:5000"); rr.Code != http.StatusTeapot {
		t.Fatalf("first request got %d", rr.Code)
	}
	rr := send("10.0.0.1:5001")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request got %d, want 429", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Rate limit exceeded") {
		t.Errorf("body got %s", rr.Body.String())
	}
	if rr := send("10.0.0.2:5000"); rr.Code != http.StatusTeapot {
		t.Errorf("another client should have its own budget, got %d", rr.Code)
	}
}

func TestNewIPRateLimiter_Disabled(t *testing.T) {
	if NewIPRateLimiter(0, 10) != nil {
		t.Error("a zero rate should disable limiting")
	}
	h := NewChain(nil).Wrap(echoTrace)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/files", nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("request %d got %d", i, rr.Code)
		}
	}
}

func TestCors(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"default allows all", nil, "http://example.com", "*"},
		{"listed origin", []string{"http://app.local"}, "http://app.local", "http://app.local"},
		{"unlisted origin", []string{"http://app.local"}, "http://evil.local", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Cors(tt.origins)(ok)
			req := httptest.NewRequest(http.MethodOptions, "/query", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPRateLimiter_PrunesIdleClients(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	clock := time.Unix(0, 0)
	l.now = func() time.Time { return clock }

	for i := 0; i < maxTrackedIPs; i++ {
		l.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	if l.tracked() != maxTrackedIPs {
		t.Fatalf("tracked got %d", l.tracked())
	}

	clock = clock.Add(visitorIdleTTL + time.Second)
	same := l.GetLimiter("10.0.0.1")
	l.GetLimiter("192.168.1.1")
	if got := l.tracked(); got != 2 {
		t.Errorf("idle clients should be dropped once the table is full, tracked %d", got)
	}
	if l.GetLimiter("10.0.0.1") != same {
		t.Error("an active client should keep its bucket")
	}
}
