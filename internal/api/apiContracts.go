package api

import "time"

// requests---------------------

type QueryRequest struct {
	Question string `json:"question" validate:"required" example:"What color is the sky?"`
}

type DeleteRequest struct {
	Filename string `json:"filename" validate:"required" example:"notes.txt"`
}

// responses---------------------

type AnswerBody struct {
	Result          string   `json:"result" example:"The sky is blue."`
	SourceDocuments []string `json:"source_documents"`
}

type QueryResponse struct {
	Response AnswerBody `json:"response"`
}

type MessageResponse struct {
	Message      string `json:"message" example:"2 file(s) uploaded and indexed!"`
	FilesIndexed int    `json:"files_indexed,omitempty" example:"2"`
	Chunks       int    `json:"chunks,omitempty" example:"14"`
}

// ErrorResponse is always {"detail": ...}; clients match on the detail text.
type ErrorResponse struct {
	Detail  string `json:"detail" example:"Question is empty"`
	TraceId string `json:"trace_id,omitempty"`
}

type FilesResponse struct {
	Files []string `json:"files"`
}

type IndexStatus struct {
	Indexed bool      `json:"indexed"`
	Chunks  int       `json:"chunks"`
	Files   []string  `json:"files,omitempty"`
	BuiltAt time.Time `json:"built_at,omitempty"`
	Backend string    `json:"backend" example:"memory"`
}

type HealthResponse struct {
	Status string      `json:"status" example:"ok"`
	Index  IndexStatus `json:"index"`
}
