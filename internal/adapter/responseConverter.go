package adapter

import (
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/api"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag/indexManager"
)

func ToQueryResponse(answer commonModels.Answer) api.QueryResponse {
	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return api.QueryResponse{
		Response: api.AnswerBody{
			Result:          answer.Result,
			SourceDocuments: sources,
		},
	}
}

func ToUploadResponse(received int, res indexManager.Result) api.MessageResponse {
	return api.MessageResponse{
		Message:      fmt.Sprintf("%d file(s) uploaded and indexed!", received),
		FilesIndexed: res.Files,
		Chunks:       res.Chunks,
	}
}

func ToDeleteResponse(name string) api.MessageResponse {
	return api.MessageResponse{Message: fmt.Sprintf("File '%s' deleted successfully", name)}
}

func ToHealthResponse(status indexManager.Status) api.HealthResponse {
	return api.HealthResponse{
		Status: "ok",
		Index: api.IndexStatus{
			Indexed: status.Indexed,
			Chunks:  status.Chunks,
			Files:   status.Files,
			BuiltAt: status.BuiltAt,
			Backend: status.Backend,
		},
	}
}

// ToErrorDetail uses fixed wording for the errors clients match on.
func ToErrorDetail(err error, traceId string) api.ErrorResponse {
	var detail string
	switch {
	case errors.Is(err, ragError.ErrNotFound):
		detail = "File not found"
	case errors.Is(err, ragError.ErrEmptyQuestion):
		detail = "Question is empty"
	default:
		detail = err.Error()
	}
	return api.ErrorResponse{Detail: detail, TraceId: traceId}
}

func BadRequest(message string, traceId string) api.ErrorResponse {
	return api.ErrorResponse{Detail: message, TraceId: traceId}
}
