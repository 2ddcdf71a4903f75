package googleEmbedding

import (
	"errors"
	"testing"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSplitRequests(t *testing.T) {
	texts := make([]string, 250)
	parts := splitRequests(texts, maxRequestsPerCall)
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(parts))
	}
	if len(parts[0]) != 100 || len(parts[2]) != 50 {
		t.Errorf("Unexpected part sizes %d, %d", len(parts[0]), len(parts[2]))
	}
	if got := splitRequests(nil, 10); len(got) != 0 {
		t.Errorf("Expected no parts for empty input, got %d", len(got))
	}
}

func TestGetContent(t *testing.T) {
	contents := getContent([]string{"a", "b"})
	if len(contents) != 2 || contents[1].Parts[0].Text != "b" {
		t.Errorf("Unexpected contents %+v", contents)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"grpc other", status.Error(codes.Internal, "boom"), false},
		{"api 429", genai.APIError{Code: 429}, true},
		{"api 500", genai.APIError{Code: 500}, false},
		{"plain", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimited(tt.err); got != tt.want {
				t.Errorf("isRateLimited() = %v, want %v", got, tt.want)
			}
		})
	}
}
