package ragError

import (
	"errors"
	"net/http"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrLoadFailure       = errors.New("load failure")
	ErrEmbeddingFailure  = errors.New("embedding failure")
	ErrEmptyIndex        = errors.New("empty index")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrGenerationFailure = errors.New("generation failure")
	ErrNothingToIndex    = errors.New("no valid documents uploaded")
	ErrConfiguration     = errors.New("configuration error")
	ErrStorageFailure    = errors.New("storage failure")

	// ErrInvalidRequest covers malformed input at the api boundary (bad json, unusable file names).
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrNotFound is a StorageFailure for a file that is not in storage.
var ErrNotFound = &notFound{}

type notFound struct{}

func (*notFound) Error() string { return "file not found" }

func (*notFound) Is(target error) bool { return target == ErrStorageFailure }

// HTTPStatus maps the taxonomy onto the status codes the api returns.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyQuestion),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrLoadFailure),
		errors.Is(err, ErrNothingToIndex),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
