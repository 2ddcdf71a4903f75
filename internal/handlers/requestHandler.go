package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/akolanti/GoDocQA/internal/adapter"
	"github.com/akolanti/GoDocQA/internal/api"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/internal/rag/indexManager"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

// multipart parts beyond this stay on disk while parsing
const multipartMemory = 32 << 20

type Answerer interface {
	Answer(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error)
}

type IndexManager interface {
	Current() vectorDB.Index
	Status() indexManager.Status
	RebuildFromFiles(ctx context.Context, paths []string) (indexManager.Result, error)
	ClearFile(name string) error
}

type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	List() ([]string, error)
}

type Handler struct {
	answerer       Answerer
	manager        IndexManager
	files          FileStore
	maxUploadBytes int64
	logger         *logger_i.Logger
}

func NewHandler(answerer Answerer, manager IndexManager, files FileStore, maxUploadBytes int64) *Handler {
	return &Handler{
		answerer:       answerer,
		manager:        manager,
		files:          files,
		maxUploadBytes: maxUploadBytes,
		logger:         logger_i.NewLogger("RequestHandler"),
	}
}

// UploadHandler godoc
// @Summary      Upload documents and rebuild the index
// @Description  Stores one or many .txt, .pdf or .docx files and rebuilds the index from them. The whole batch fails if any file cannot be read.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Files to index (repeat the field for several files)"
// @Success      200  {object}  api.MessageResponse  "Files stored and indexed"
// @Failure      400  {object}  api.ErrorResponse    "Unsupported or unreadable file, or nothing to index"
// @Failure      413  {object}  api.ErrorResponse    "Upload too large"
// @Failure      500  {object}  api.ErrorResponse    "Storage or embedding failure"
// @Router       /upload [post]
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	log := h.logger.With("traceId", traceId(r))

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, traceId(r), "Upload too large")
			return
		}
		WriteErrorResponse(w, http.StatusBadRequest, traceId(r), "Expected a multipart form with files")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		writeError(w, r, ragError.ErrNothingToIndex)
		return
	}

	// a repeated name overwrites the stored file, so it is indexed once with the last content
	paths := make([]string, 0, len(uploads))
	stored := make(map[string]bool, len(uploads))
	for _, fh := range uploads {
		path, err := h.saveUpload(fh)
		if err != nil {
			log.Error("Could not store upload", "file", fh.Filename, "error", err)
			writeError(w, r, err)
			return
		}
		if stored[path] {
			log.Warn("Upload repeats a file name, keeping the last part", "file", fh.Filename)
			continue
		}
		stored[path] = true
		paths = append(paths, path)
	}
	h.refreshFileGauge()
	log.Info("Stored uploads", "count", len(paths))

	// the files are already stored, so finish the rebuild even if the client goes away
	res, err := h.manager.RebuildFromFiles(context.WithoutCancel(r.Context()), paths)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(len(paths), res))
}

func (h *Handler) saveUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: reading upload %s: %w", ragError.ErrInvalidRequest, fh.Filename, err)
	}
	defer f.Close()
	return h.files.Save(fh.Filename, f)
}

// DeleteHandler godoc
// @Summary      Delete an uploaded file
// @Description  Removes a stored file. The current index is not rebuilt.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.DeleteRequest    true  "File name"
// @Success      200      {object}  api.MessageResponse  "File deleted"
// @Failure      400      {object}  api.ErrorResponse    "Malformed request"
// @Failure      404      {object}  api.ErrorResponse    "File not found"
// @Router       /delete [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.DeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.manager.ClearFile(req.Filename); err != nil {
		writeError(w, r, err)
		return
	}
	h.refreshFileGauge()
	writeJsonResponse(w, http.StatusOK, adapter.ToDeleteResponse(baseName(req.Filename)))
}

// QueryHandler godoc
// @Summary      Ask a question
// @Description  Answers from the indexed documents, or straight from the model when nothing has been uploaded yet.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Question"
// @Success      200      {object}  api.QueryResponse  "Answer and source excerpts"
// @Failure      400      {object}  api.ErrorResponse  "Empty question"
// @Failure      500      {object}  api.ErrorResponse  "Model or retrieval failure"
// @Router       /query [post]
func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.Question, h.manager.Current())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(answer))
}

// ListFilesHandler godoc
// @Summary      List uploaded files
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.FilesResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /files [get]
func (h *Handler) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	names, err := h.files.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.FilesResponse{Files: names})
}

// HealthHandler godoc
// @Summary      Liveness and index state
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, adapter.ToHealthResponse(h.manager.Status()))
}

func (h *Handler) refreshFileGauge() {
	if names, err := h.files.List(); err == nil {
		metrics.SetUploadedFiles(len(names))
	}
}
