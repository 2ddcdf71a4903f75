package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

type extractFunc func(path string) ([]rawPage, error)

type handler struct {
	docType commonModels.DocType
	paged   bool //one document per page instead of one per file
	extract extractFunc
}

// Loader turns files into Documents, picking the decoder by file extension.
type Loader struct {
	mu       sync.RWMutex
	handlers map[string]handler
	logger   *logger_i.Logger
}

func NewLoader() *Loader {
	l := &Loader{
		handlers: make(map[string]handler),
		logger:   logger_i.NewLogger("Loader"),
	}
	l.Register(".txt", commonModels.TXT, false, extractPlainText)
	l.Register(".pdf", commonModels.PDF, true, extractPDF)
	l.Register(".docx", commonModels.DOCX, false, extractDocx)
	return l
}

// Register adds or replaces the handler for ext (".md", ".odt", ...).
func (l *Loader) Register(ext string, docType commonModels.DocType, paged bool, fn extractFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[normalizeExt(ext)] = handler{docType: docType, paged: paged, extract: fn}
}

func (l *Loader) SupportedExtensions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	exts := make([]string, 0, len(l.handlers))
	for ext := range l.handlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (l *Loader) getDocType(path string) commonModels.DocType {
	h, ok := l.lookup(path)
	if !ok {
		return commonModels.ERR
	}
	return h.docType
}

func (l *Loader) lookup(path string) (handler, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.handlers[normalizeExt(filepath.Ext(path))]
	return h, ok
}

// CheckSupported fails with ErrUnsupportedFormat without touching the file.
func (l *Loader) CheckSupported(path string) error {
	if _, ok := l.lookup(path); !ok {
		return unsupported(path)
	}
	return nil
}

// Load decodes a single file. Unsupported extensions fail the call.
func (l *Loader) Load(ctx context.Context, path string) ([]commonModels.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, ok := l.lookup(path)
	if !ok {
		return nil, unsupported(path)
	}

	name := filepath.Base(path)
	log := l.logger.With("file", name, "type", h.docType)
	log.Debug("Loading file")

	pages, err := h.extract(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ragError.ErrLoadFailure, name, err)
	}

	loadedAt := time.Now()
	docs := make([]commonModels.Document, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}
		meta := map[string]string{
			commonModels.MetaSource:      name,
			commonModels.MetaContentType: string(h.docType),
		}
		if h.paged {
			meta[commonModels.MetaPage] = strconv.Itoa(page.Number)
		}
		docs = append(docs, commonModels.Document{
			Content:    page.Content,
			Metadata:   meta,
			LoadedAt:   loadedAt,
			SourceType: h.docType,
		})
	}
	log.Debug("Loaded file", "documents", len(docs))
	return docs, nil
}

// LoadDirectory scans dir (not recursively). Unsupported or broken files are logged and skipped.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]commonModels.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ragError.ErrLoadFailure, dir, err)
	}

	var docs []commonModels.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, ok := l.lookup(path); !ok {
			l.logger.Warn("Skipping unsupported file", "file", entry.Name())
			continue
		}
		fileDocs, err := l.Load(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn("Failed to load file", "file", entry.Name(), "error", err)
			continue
		}
		l.logger.Info("Loaded documents", "file", entry.Name(), "documents", len(fileDocs))
		docs = append(docs, fileDocs...)
	}
	l.logger.Info("Directory loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

func unsupported(path string) error {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("%w: %s", ragError.ErrUnsupportedFormat, ext)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
