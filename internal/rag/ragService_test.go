package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag"
	"github.com/akolanti/GoDocQA/internal/rag/ragMocks"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB/memoryDB"
)

func hit(content string, score float32) commonModels.Hit {
	return commonModels.Hit{Chunk: commonModels.DocChunk{Content: content}, Score: score}
}

func TestAnswer_EmptyQuestionMakesNoCalls(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		em := &ragMocks.MockEmbedder{}
		llm := &ragMocks.MockLLM{}
		ix := &ragMocks.MockIndex{Size: 3}
		svc := rag.NewService(em, llm, rag.Options{K: 3})

		_, err := svc.Answer(context.Background(), q, ix)
		if !errors.Is(err, ragError.ErrEmptyQuestion) {
			t.Errorf("question %q: got %v, want ErrEmptyQuestion", q, err)
		}
		if em.Calls.Load() != 0 || llm.Calls.Load() != 0 || ix.SearchCalls.Load() != 0 {
			t.Errorf("question %q triggered external calls", q)
		}
	}
}

func TestAnswer_NoIndexSkipsRetrieval(t *testing.T) {
	tests := []struct {
		name  string
		index vectorDB.Index
	}{
		{"absent", nil},
		{"empty", &ragMocks.MockIndex{Size: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := &ragMocks.MockEmbedder{}
			llm := &ragMocks.MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
				return "Paris", nil
			}}
			svc := rag.NewService(em, llm, rag.Options{K: 3})

			answer, err := svc.Answer(context.Background(), "What is the capital of France?", tt.index)
			if err != nil {
				t.Fatalf("Answer failed: %v", err)
			}
			if answer.Result != "Paris" {
				t.Errorf("got %q", answer.Result)
			}
			if answer.Sources == nil || len(answer.Sources) != 0 {
				t.Errorf("expected an empty, non-nil source list, got %#v", answer.Sources)
			}
			if em.Calls.Load() != 0 {
				t.Error("the embedder should not be called without an index")
			}
			if llm.Prompt() != "What is the capital of France?" {
				t.Errorf("the raw question should go to the model, got %q", llm.Prompt())
			}
		})
	}
}

func TestAnswer_Grounded(t *testing.T) {
	em := &ragMocks.MockEmbedder{}
	ix := &ragMocks.MockIndex{Size: 5, OnSearch: func(ctx context.Context, q []float32, k int) ([]commonModels.Hit, error) {
		if k != 3 {
			t.Errorf("expected k=3, got %d", k)
		}
		return []commonModels.Hit{hit("The sky is blue.", 0.9), hit("Grass is green.", 0.2)}, nil
	}}
	llm := &ragMocks.MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
		return "Blue.", nil
	}}

	answer, err := rag.NewService(em, llm, rag.Options{K: 3}).Answer(context.Background(), "What color is the sky?", ix)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer.Result != "Blue." {
		t.Errorf("got %q", answer.Result)
	}
	if len(answer.Sources) != 2 || answer.Sources[0] != "The sky is blue." {
		t.Errorf("unexpected sources %v", answer.Sources)
	}
	prompt := llm.Prompt()
	for _, want := range []string{"The sky is blue.", "Grass is green.", "Question: What color is the sky?", "Helpful Answer:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q:\n%s", want, prompt)
		}
	}
	if strings.Index(prompt, "The sky is blue.") > strings.Index(prompt, "Grass is green.") {
		t.Error("context chunks should keep their ranking order")
	}
}

func TestAnswer_SkyAndGrassWithMemoryIndex(t *testing.T) {
	vectors := map[string][]float32{
		"The sky is blue.":       {1, 0},
		"Grass is green.":        {0, 1},
		"What color is the sky?": {0.95, 0.05},
	}
	em := &ragMocks.MockEmbedder{OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
		return vectors[text], nil
	}}
	ix, err := memoryDB.NewBuilder().Build(context.Background(), []commonModels.Entry{
		{Chunk: commonModels.DocChunk{Content: "The sky is blue."}, Vector: vectors["The sky is blue."]},
		{Chunk: commonModels.DocChunk{Content: "Grass is green."}, Vector: vectors["Grass is green."]},
	})
	if err != nil {
		t.Fatal(err)
	}

	answer, err := rag.NewService(em, &ragMocks.MockLLM{}, rag.Options{K: 1}).Answer(context.Background(), "What color is the sky?", ix)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "The sky is blue." {
		t.Errorf("expected the sky chunk, got %v", answer.Sources)
	}
}

func TestAnswer_Failures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		em      *ragMocks.MockEmbedder
		ix      *ragMocks.MockIndex
		llm     *ragMocks.MockLLM
		wantErr error
	}{
		{
			name:    "generation without index",
			em:      &ragMocks.MockEmbedder{},
			ix:      nil,
			llm:     &ragMocks.MockLLM{OnGenerate: func(context.Context, string) (string, error) { return "", boom }},
			wantErr: ragError.ErrGenerationFailure,
		},
		{
			name:    "generation with index",
			em:      &ragMocks.MockEmbedder{},
			ix:      &ragMocks.MockIndex{Size: 1},
			llm:     &ragMocks.MockLLM{OnGenerate: func(context.Context, string) (string, error) { return "", boom }},
			wantErr: ragError.ErrGenerationFailure,
		},
		{
			name: "embedding",
			em: &ragMocks.MockEmbedder{OnGetEmbedding: func(context.Context, string) ([]float32, error) {
				return nil, ragError.ErrEmbeddingFailure
			}},
			ix:      &ragMocks.MockIndex{Size: 1},
			llm:     &ragMocks.MockLLM{},
			wantErr: ragError.ErrEmbeddingFailure,
		},
		{
			name: "search",
			em:   &ragMocks.MockEmbedder{},
			ix: &ragMocks.MockIndex{Size: 1, OnSearch: func(context.Context, []float32, int) ([]commonModels.Hit, error) {
				return nil, ragError.ErrStorageFailure
			}},
			llm:     &ragMocks.MockLLM{},
			wantErr: ragError.ErrStorageFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ix vectorDB.Index
			if tt.ix != nil {
				ix = tt.ix
			}
			_, err := rag.NewService(tt.em, tt.llm, rag.Options{K: 3}).Answer(context.Background(), "question", ix)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == ragError.ErrGenerationFailure && !errors.Is(err, boom) {
				t.Error("the model error should stay in the chain")
			}
			if tt.wantErr != ragError.ErrGenerationFailure && tt.llm.Calls.Load() != 0 {
				t.Error("the model should not be called after a retrieval failure")
			}
		})
	}
}

func TestAnswer_LLMTimeout(t *testing.T) {
	llm := &ragMocks.MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	_, err := rag.NewService(&ragMocks.MockEmbedder{}, llm, rag.Options{K: 3, LLMTimeout: 10 * time.Millisecond}).
		Answer(context.Background(), "slow?", nil)
	if !errors.Is(err, ragError.ErrGenerationFailure) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected a generation failure caused by the deadline, got %v", err)
	}
}

func TestBuildGroundedPrompt(t *testing.T) {
	got := rag.BuildGroundedPrompt("Q?", []string{"a", "b"})
	if !strings.HasSuffix(got, "a\n\nb\n\nQuestion: Q?\nHelpful Answer:") {
		t.Errorf("unexpected prompt:\n%s", got)
	}
}
