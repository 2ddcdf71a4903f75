package googleEmbedding

import (
	"errors"
	"net/http"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// the embedContent endpoint rejects more than 100 inputs per call
const maxRequestsPerCall = 100

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func splitRequests(chunks []string, size int) [][]string {
	var parts [][]string
	for len(chunks) > size {
		parts = append(parts, chunks[:size])
		chunks = chunks[size:]
	}
	if len(chunks) > 0 {
		parts = append(parts, chunks)
	}
	return parts
}

// isRateLimited is only used for logging; calls are never retried.
func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
