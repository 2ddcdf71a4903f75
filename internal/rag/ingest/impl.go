package ingest

import (
	"strconv"

	"github.com/akolanti/GoDocQA/internal/adapter/utils"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50

	MetaChunkOrder = "chunk_order"
)

var packageLogger = logger_i.NewLogger("Ingest")

// Splitter cuts documents into fixed windows of chunkSize runes, each window
// repeating the last chunkOverlap runes of the one before it.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewSplitter(chunkSize int, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

func (s *Splitter) ChunkSize() int    { return s.chunkSize }
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// Split keeps document order and chunk order; every chunk inherits its document's metadata.
func (s *Splitter) Split(docs []commonModels.Document) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, doc := range docs {
		stringChunks := splitTextIntoChunks(doc.Content, s.chunkSize, s.chunkOverlap)

		for i, text := range stringChunks {
			meta := commonModels.CloneMetadata(doc.Metadata)
			meta[MetaChunkOrder] = strconv.Itoa(i)
			allChunks = append(allChunks, commonModels.DocChunk{
				ChunkId:  utils.GetNewUUID(),
				Content:  text,
				Order:    i,
				Metadata: meta,
			})
		}
	}

	return allChunks
}

// splitTextIntoChunks works on runes so multi-byte text is never cut mid-character.
// Only the last window can be shorter than limit, and it is always longer than overlap.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	step := limit - overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; ; start += step {
		end := start + limit
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
