package ragError

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", fmt.Errorf("delete a.txt: %w", ErrNotFound), http.StatusNotFound},
		{"empty question", ErrEmptyQuestion, http.StatusBadRequest},
		{"unsupported", fmt.Errorf("%w: .csv", ErrUnsupportedFormat), http.StatusBadRequest},
		{"load", fmt.Errorf("%w: a.pdf: %w", ErrLoadFailure, errors.New("eof")), http.StatusBadRequest},
		{"nothing to index", fmt.Errorf("%w: %w", ErrNothingToIndex, ErrUnsupportedFormat), http.StatusBadRequest},
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest},
		{"generation", fmt.Errorf("%w: timeout", ErrGenerationFailure), http.StatusInternalServerError},
		{"embedding", ErrEmbeddingFailure, http.StatusInternalServerError},
		{"storage", ErrStorageFailure, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNotFoundIsStorageFailure(t *testing.T) {
	err := fmt.Errorf("x: %w", ErrNotFound)
	if !errors.Is(err, ErrStorageFailure) {
		t.Error("ErrNotFound should match ErrStorageFailure")
	}
	if errors.Is(ErrStorageFailure, ErrNotFound) {
		t.Error("a generic storage failure is not a not-found")
	}
}
