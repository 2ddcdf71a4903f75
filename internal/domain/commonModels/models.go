package commonModels

import "time"

// metadata keys set by the loader
const (
	MetaSource      = "source"
	MetaPage        = "page"
	MetaContentType = "content_type"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// Document is one decoded unit of a file: the whole file for text and word, one page for pdf.
type Document struct {
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	LoadedAt   time.Time         `json:"loaded_at"`
	SourceType DocType           `json:"content_type"`
}

type DocChunk struct {
	ChunkId  string            `json:"chunk_id"`
	Content  string            `json:"content"`
	Order    int               `json:"chunk_order"` //position inside the source document
	Metadata map[string]string `json:"metadata"`
}

// Entry is what the vector index stores: a chunk and its embedding.
type Entry struct {
	Chunk  DocChunk
	Vector []float32
}

type Hit struct {
	Chunk DocChunk `json:"chunk"`
	Score float32  `json:"score"`
}

type Answer struct {
	Result  string   `json:"result"`
	Sources []string `json:"source_documents"`
}

func CloneMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
