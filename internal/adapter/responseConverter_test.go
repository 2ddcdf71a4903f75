package adapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag/indexManager"
)

func TestToQueryResponse_NeverNullSources(t *testing.T) {
	res := ToQueryResponse(commonModels.Answer{Result: "x"})
	if res.Response.SourceDocuments == nil {
		t.Error("source_documents must encode as [] rather than null")
	}
}

func TestToUploadResponse(t *testing.T) {
	res := ToUploadResponse(2, indexManager.Result{Files: 2, Chunks: 5})
	if res.Message != "2 file(s) uploaded and indexed!" || res.Chunks != 5 {
		t.Errorf("unexpected response %+v", res)
	}
}

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("a.txt: %w", ragError.ErrNotFound), "File not found"},
		{ragError.ErrEmptyQuestion, "Question is empty"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := ToErrorDetail(tt.err, "t1"); got.Detail != tt.want || got.TraceId != "t1" {
			t.Errorf("ToErrorDetail(%v) = %+v, want %q", tt.err, got, tt.want)
		}
	}
}
