package ragMocks

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
)

// MockEmbedder implements embedding.Embedder and rag.QueryEmbedder.
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
	Model            string

	Calls atomic.Int32
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.Calls.Add(1)
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return m.GetEmbedding(ctx, text)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	m.Calls.Add(1)
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (m *MockEmbedder) ModelName() string {
	if m.Model == "" {
		return "mock-embedder"
	}
	return m.Model
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)

	Calls      atomic.Int32
	LastPrompt atomic.Value
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls.Add(1)
	m.LastPrompt.Store(prompt)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) ModelName() string {
	return "mock-llm"
}

func (m *MockLLM) Prompt() string {
	p, _ := m.LastPrompt.Load().(string)
	return p
}

// MockIndex implements vectorDB.Index
type MockIndex struct {
	OnSearch  func(ctx context.Context, query []float32, k int) ([]commonModels.Hit, error)
	OnRelease func(ctx context.Context) error
	Size      int
	Dim       int

	SearchCalls atomic.Int32
	Released    atomic.Bool
}

func (m *MockIndex) Search(ctx context.Context, query []float32, k int) ([]commonModels.Hit, error) {
	m.SearchCalls.Add(1)
	if m.OnSearch != nil {
		return m.OnSearch(ctx, query, k)
	}
	return []commonModels.Hit{}, nil
}

func (m *MockIndex) Len() int {
	return m.Size
}

func (m *MockIndex) Dimension() int {
	return m.Dim
}

func (m *MockIndex) Release(ctx context.Context) error {
	m.Released.Store(true)
	if m.OnRelease != nil {
		return m.OnRelease(ctx)
	}
	return nil
}

// MockBuilder implements vectorDB.Builder
type MockBuilder struct {
	OnBuild func(ctx context.Context, entries []commonModels.Entry) (vectorDB.Index, error)
}

func (m *MockBuilder) Build(ctx context.Context, entries []commonModels.Entry) (vectorDB.Index, error) {
	if m.OnBuild != nil {
		return m.OnBuild(ctx, entries)
	}
	return &MockIndex{Size: len(entries)}, nil
}

func (m *MockBuilder) Name() string {
	return "mock"
}

// MockAnswerer implements rag.Service
type MockAnswerer struct {
	OnAnswer func(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error)

	Calls    atomic.Int32
	LastSeen atomic.Value
}

func (m *MockAnswerer) Answer(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error) {
	m.Calls.Add(1)
	m.LastSeen.Store(question)
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, question, index)
	}
	return commonModels.Answer{Result: "mocked answer", Sources: []string{}}, nil
}

func (m *MockAnswerer) Question() string {
	q, _ := m.LastSeen.Load().(string)
	return q
}
