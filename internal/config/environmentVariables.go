package config

import (
	"time"
)

type contextKey string

const (
	TRACE_ID_KEY    contextKey = "traceId"
	TRACE_ID_HEADER            = "X-Trace-Id"

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 120 * time.Second //llm calls can be slow
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantUseTLS            = false
	QdrantPoolSize          = 1
	QdrantCollectionPrefix  = "docqa-"
	QdrantReleaseGrace      = 2 * time.Minute //old collections stay alive for in-flight searches

	//pdf pages that hang the parser are skipped
	PDFPageExtractTimeout = 10 * time.Second

	//llm
	ModelContext = "Use the following pieces of context to answer the question at the end. " +
		"If you don't know the answer, just say that you don't know, don't try to make up an answer."

	//http pool shared by the provider clients
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	RedisEmbeddingCacheDB  = 2
	RedisEmbeddingCacheTTL = 7 * 24 * time.Hour
	RedisPingTimeout       = 3 * time.Second

	//rebuild
	FileLoadConcurrency       = 4
	EmbeddingBatchConcurrency = 2

	MCPServerName    = "docqa"
	MCPServerVersion = "1.0.0"
)
