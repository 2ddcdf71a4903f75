package indexManager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/internal/rag/ingest"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// ChunkEmbedder is implemented by embedding.Manager.
type ChunkEmbedder interface {
	EmbedChunks(ctx context.Context, chunks []commonModels.DocChunk) ([]commonModels.Entry, error)
}

// FileStore is the part of storage.FileStore the manager uses.
type FileStore interface {
	Delete(name string) error
	Paths() ([]string, error)
}

type Options struct {
	Scope        string
	ReleaseGrace time.Duration
}

// Result describes one successful rebuild.
type Result struct {
	Files     int
	Documents int
	Chunks    int
}

// Status is a read only snapshot of the installed index.
type Status struct {
	Indexed bool      `json:"indexed"`
	Chunks  int       `json:"chunks"`
	Files   []string  `json:"files,omitempty"`
	BuiltAt time.Time `json:"built_at,omitempty"`
	Backend string    `json:"backend"`
}

type installed struct {
	index   vectorDB.Index
	files   []string
	builtAt time.Time
}

// Manager owns the current index. Readers never lock; rebuilds are serialized and
// publish a fully built index with one atomic swap.
type Manager struct {
	loader   *ingest.Loader
	splitter *ingest.Splitter
	embedder ChunkEmbedder
	builder  vectorDB.Builder
	files    FileStore
	opts     Options

	current   atomic.Pointer[installed]
	rebuildMu sync.Mutex
	logger    *logger_i.Logger
}

func NewManager(loader *ingest.Loader, splitter *ingest.Splitter, embedder ChunkEmbedder, builder vectorDB.Builder, files FileStore, opts Options) *Manager {
	if opts.Scope == "" {
		opts.Scope = config.ScopeBatch
	}
	return &Manager{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		builder:  builder,
		files:    files,
		opts:     opts,
		logger:   logger_i.NewLogger("Index Manager"),
	}
}

// Current returns the installed index, or nil before the first successful build.
func (m *Manager) Current() vectorDB.Index {
	if cur := m.current.Load(); cur != nil {
		return cur.index
	}
	return nil
}

func (m *Manager) Status() Status {
	s := Status{Backend: m.builder.Name()}
	if cur := m.current.Load(); cur != nil {
		s.Indexed = true
		s.Chunks = cur.index.Len()
		s.Files = append([]string(nil), cur.files...)
		s.BuiltAt = cur.builtAt
	}
	return s
}

func (m *Manager) RebuildFromFile(ctx context.Context, path string) (Result, error) {
	return m.RebuildFromFiles(ctx, []string{path})
}

// RebuildFromFiles loads every path strictly: one unreadable or unsupported file aborts the whole batch
// and leaves the current index untouched. With the "all" scope, other stored files are added leniently.
func (m *Manager) RebuildFromFiles(ctx context.Context, paths []string) (Result, error) {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	log := m.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "files", len(paths))
	start := time.Now()

	if len(paths) == 0 {
		return m.fail(log, ragError.ErrNothingToIndex)
	}
	if err := m.checkSupported(paths); err != nil {
		return m.fail(log, err)
	}

	docs, err := m.loadStrict(ctx, paths)
	if err != nil {
		return m.fail(log, err)
	}

	names := baseNames(paths)
	if m.opts.Scope == config.ScopeAll {
		extraDocs, extraNames := m.loadStored(ctx, paths)
		docs = append(docs, extraDocs...)
		names = append(names, extraNames...)
	}

	res, err := m.buildAndInstall(ctx, log, docs, names)
	if err != nil {
		return m.fail(log, err)
	}
	log.Info("Index rebuilt", "documents", res.Documents, "chunks", res.Chunks, "elapsed", time.Since(start))
	return res, nil
}

// RebuildFromDirectory skips unsupported and unreadable files instead of failing.
func (m *Manager) RebuildFromDirectory(ctx context.Context, dir string) (Result, error) {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	log := m.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "dir", dir)
	docs, err := m.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return m.fail(log, err)
	}
	res, err := m.buildAndInstall(ctx, log, docs, sourcesOf(docs))
	if err != nil {
		return m.fail(log, err)
	}
	log.Info("Index rebuilt from directory", "documents", res.Documents, "chunks", res.Chunks)
	return res, nil
}

// ClearFile removes a stored upload. The current index keeps its chunks until the next rebuild.
func (m *Manager) ClearFile(name string) error {
	return m.files.Delete(name)
}

func (m *Manager) checkSupported(paths []string) error {
	var unsupported []error
	for _, p := range paths {
		if err := m.loader.CheckSupported(p); err != nil {
			unsupported = append(unsupported, err)
		}
	}
	switch {
	case len(unsupported) == 0:
		return nil
	case len(unsupported) == len(paths):
		return fmt.Errorf("%w: %w", ragError.ErrNothingToIndex, errors.Join(unsupported...))
	default:
		return unsupported[0]
	}
}

func (m *Manager) loadStrict(ctx context.Context, paths []string) ([]commonModels.Document, error) {
	perFile := make([][]commonModels.Document, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(config.FileLoadConcurrency)

	for i, p := range paths {
		group.Go(func() error {
			docs, err := m.loader.Load(groupCtx, p)
			if err != nil {
				return err
			}
			perFile[i] = docs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var docs []commonModels.Document
	for _, d := range perFile {
		docs = append(docs, d...)
	}
	return docs, nil
}

func (m *Manager) loadStored(ctx context.Context, batch []string) ([]commonModels.Document, []string) {
	if m.files == nil {
		return nil, nil
	}
	stored, err := m.files.Paths()
	if err != nil {
		m.logger.Warn("Could not list stored files, indexing the batch only", "error", err)
		return nil, nil
	}
	inBatch := make(map[string]bool, len(batch))
	for _, p := range batch {
		inBatch[filepath.Clean(p)] = true
	}

	var docs []commonModels.Document
	var names []string
	for _, p := range stored {
		if inBatch[filepath.Clean(p)] {
			continue
		}
		d, err := m.loader.Load(ctx, p)
		if err != nil {
			m.logger.Warn("Skipping stored file", "file", filepath.Base(p), "error", err)
			continue
		}
		docs = append(docs, d...)
		names = append(names, filepath.Base(p))
	}
	return docs, names
}

func (m *Manager) buildAndInstall(ctx context.Context, log *logger_i.Logger, docs []commonModels.Document, names []string) (Result, error) {
	if len(docs) == 0 {
		return Result{}, ragError.ErrNothingToIndex
	}
	chunks := m.splitter.Split(docs)
	if len(chunks) == 0 {
		return Result{}, ragError.ErrNothingToIndex
	}
	log.Debug("Split documents", "documents", len(docs), "chunks", len(chunks))

	entries, err := m.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	index, err := m.builder.Build(ctx, entries)
	metrics.CaptureExecutionMetrics("index_build", time.Since(start))
	if err != nil {
		return Result{}, err
	}

	m.install(index, names)
	return Result{Files: len(names), Documents: len(docs), Chunks: index.Len()}, nil
}

func (m *Manager) install(index vectorDB.Index, names []string) {
	old := m.current.Swap(&installed{index: index, files: names, builtAt: time.Now()})
	metrics.SetIndexedChunks(index.Len())
	metrics.RecordRebuild("success")
	if old == nil {
		return
	}
	// searches that loaded the old index may still be running
	time.AfterFunc(m.opts.ReleaseGrace, func() {
		if err := old.index.Release(context.Background()); err != nil {
			m.logger.Warn("Could not release superseded index", "error", err)
		}
	})
}

func (m *Manager) fail(log *logger_i.Logger, err error) (Result, error) {
	metrics.RecordRebuild("failed")
	log.Warn("Index rebuild failed, keeping the current index", "error", err)
	return Result{}, err
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sourcesOf(docs []commonModels.Document) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range docs {
		src := d.Metadata[commonModels.MetaSource]
		if src != "" && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out
}
