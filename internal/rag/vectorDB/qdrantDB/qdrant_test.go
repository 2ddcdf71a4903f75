package qdrantDB

import (
	"testing"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

func TestPayloadRoundTrip(t *testing.T) {
	chunk := commonModels.DocChunk{
		ChunkId:  "0b9f5d2e-8a4f-4d7e-9c61-3f2a1b0c9d8e",
		Content:  "The sky is blue.",
		Order:    2,
		Metadata: map[string]string{commonModels.MetaSource: "a.txt", commonModels.MetaPage: "3"},
	}

	got := fromPayload(qdrant.NewValueMap(toPayload(chunk, 7)))
	if got.ChunkId != chunk.ChunkId || got.Content != chunk.Content || got.Order != 2 {
		t.Errorf("chunk mismatch: %+v", got)
	}
	if got.Metadata[commonModels.MetaSource] != "a.txt" || got.Metadata[commonModels.MetaPage] != "3" {
		t.Errorf("metadata mismatch: %v", got.Metadata)
	}
	if got.Metadata[payloadPosition] != "7" {
		t.Errorf("position not carried: %v", got.Metadata)
	}
}

func TestSortTies(t *testing.T) {
	mk := func(id string, score float32, pos string) commonModels.Hit {
		return commonModels.Hit{
			Chunk: commonModels.DocChunk{ChunkId: id, Metadata: map[string]string{payloadPosition: pos}},
			Score: score,
		}
	}
	hits := []commonModels.Hit{mk("c", 0.5, "9"), mk("b", 0.9, "4"), mk("a", 0.5, "1")}
	sortTies(hits)

	for i, want := range []string{"b", "a", "c"} {
		if hits[i].Chunk.ChunkId != want {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Chunk.ChunkId, want)
		}
		if _, ok := hits[i].Chunk.Metadata[payloadPosition]; ok {
			t.Errorf("position key leaked into hit %d", i)
		}
	}
}

func TestTopK_TieAcrossTheCut(t *testing.T) {
	mk := func(id string, score float32, pos string) commonModels.Hit {
		return commonModels.Hit{
			Chunk: commonModels.DocChunk{ChunkId: id, Metadata: map[string]string{payloadPosition: pos}},
			Score: score,
		}
	}

	tests := []struct {
		name     string
		hits     []commonModels.Hit
		k        int
		limit    int
		wantCut  bool
		wantTopK []string
	}{
		{
			name:     "tie straddles k",
			hits:     []commonModels.Hit{mk("top", 0.9, "5"), mk("late", 0.5, "8"), mk("early", 0.5, "2")},
			k:        2,
			limit:    3,
			wantCut:  true,
			wantTopK: []string{"top", "early"},
		},
		{
			name:     "tie inside window",
			hits:     []commonModels.Hit{mk("x", 0.7, "3"), mk("y", 0.7, "1"), mk("z", 0.2, "0")},
			k:        1,
			limit:    3,
			wantCut:  false,
			wantTopK: []string{"y"},
		},
		{
			name:     "fewer points than limit",
			hits:     []commonModels.Hit{mk("a", 0.5, "1"), mk("b", 0.5, "0")},
			k:        1,
			limit:    17,
			wantCut:  false,
			wantTopK: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tieAtCut(tt.hits, tt.k, tt.limit); got != tt.wantCut {
				t.Errorf("tieAtCut = %v, want %v", got, tt.wantCut)
			}
			got := topK(tt.hits, tt.k)
			if len(got) != len(tt.wantTopK) {
				t.Fatalf("got %d hits, want %d", len(got), len(tt.wantTopK))
			}
			for i, want := range tt.wantTopK {
				if got[i].Chunk.ChunkId != want {
					t.Errorf("hit %d = %s, want %s", i, got[i].Chunk.ChunkId, want)
				}
			}
		})
	}
}
