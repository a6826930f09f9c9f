// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/proplens/internal/circular"
	"github.com/proplens/internal/config"
	"github.com/proplens/internal/discovery"
	"github.com/proplens/internal/embeddings"
	"github.com/proplens/internal/extract"
	"github.com/proplens/internal/llm"
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/pipeline"
	"github.com/proplens/internal/store"
	"github.com/proplens/internal/tableparse"
	"github.com/proplens/internal/vectordb"
)

var (
	filePath   = flag.String("file", "", "Document to ingest")
	docType    = flag.String("type", "schedule", "Document type: schedule or circular")
	configPath = flag.String("config", "", "Config file path (YAML)")
	watchDir   = flag.String("watch", "", "Watch a directory and ingest documents as they appear")
)

func main() {
	flag.Parse()

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if _, err := logger.Init(cfg.LogFile); err != nil {
		logger.Fatalf("failed to init logger: %v", err)
	}

	if *filePath == "" && *watchDir == "" {
		logger.Fatalf("either -file or -watch is required")
	}

	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()

	st, err := store.New(db)
	if err != nil {
		logger.Fatalf("failed to init store: %v", err)
	}
	events, err := store.NewEventLog(db)
	if err != nil {
		logger.Fatalf("failed to init event log: %v", err)
	}

	embedder, err := embeddings.New(embeddings.Options{
		Type:      cfg.Embedder.Type,
		Model:     cfg.Embedder.Model,
		APIKey:    config.OpenAIKey(),
		BaseURL:   cfg.Embedder.BaseURL,
		Dimension: cfg.Embedder.Dimension,
	})
	if err != nil {
		logger.Fatalf("failed to init embedder: %v", err)
	}

	var index vectordb.VectorDB
	if cfg.Embedder.Type == "mock" {
		// Local runs without a Qdrant instance.
		index = vectordb.NewMemoryVectorDB()
	} else {
		conn, err := grpc.Dial(cfg.Qdrant.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatalf("failed to connect to Qdrant: %v", err)
		}
		defer conn.Close()
		index, err = vectordb.NewQdrantDB(conn, cfg.Qdrant.Collection, embedder.Dimension())
		if err != nil {
			logger.Fatalf("failed to init vector db: %v", err)
		}
	}

	model := llm.NewClient(config.OpenAIKey(), cfg.LLM.OpenAIModel, cfg.LLM.LocalEndpoint, cfg.LLM.LocalModel)
	cascade := discovery.NewCascade(cfg.Extract.OCRIfNeeded)
	parser := tableparse.NewParser(model, cfg.LLM.ChunkRows, cfg.LLM.Workers)
	vision := discovery.NewVisionExtractor(model)
	schedules := extract.NewExtractor(cascade, parser, vision, cfg.Extract.UseVision)
	circulars := circular.NewExtractor(model)

	p := pipeline.New(schedules, circulars, st, events, embedder, index)
	ctx := context.Background()

	if *watchDir != "" {
		watchAndIngest(ctx, p, *watchDir)
		return
	}

	ingestOne(ctx, p, *filePath, *docType)
}

func ingestOne(ctx context.Context, p *pipeline.Pipeline, path, docType string) {
	var n int
	var err error
	switch docType {
	case "schedule":
		n, err = p.IngestSchedule(ctx, path)
	case "circular":
		n, err = p.IngestCircular(ctx, path)
	default:
		logger.Fatalf("unknown document type %q", docType)
	}
	if err != nil {
		logger.Fatalf("ingestion failed for %s: %v", path, err)
	}
	logger.Printf("Ingested %d records from %s", n, path)
}

// watchAndIngest ingests supported documents as they land in dir. Files whose
// names contain "circular" go down the circular path; everything else is
// treated as a schedule.
func watchAndIngest(ctx context.Context, p *pipeline.Pipeline, dir string) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		logger.Fatalf("failed to resolve watch directory: %v", err)
	}
	if _, err := os.Stat(absDir); os.IsNotExist(err) {
		if err := os.MkdirAll(absDir, 0755); err != nil {
			logger.Fatalf("failed to create watch directory: %v", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(absDir); err != nil {
		logger.Fatalf("failed to watch %s: %v", absDir, err)
	}
	logger.Printf("Watching directory: %s", absDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-stop:
			logger.Printf("Shutting down watcher")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isSupportedFile(event.Name) {
				continue
			}
			docType := "schedule"
			if strings.Contains(strings.ToLower(filepath.Base(event.Name)), "circular") {
				docType = "circular"
			}
			logger.Printf("Detected %s: %s", docType, event.Name)
			ingestWatched(ctx, p, event.Name, docType)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("watcher error: %v", err)
		}
	}
}

func ingestWatched(ctx context.Context, p *pipeline.Pipeline, path, docType string) {
	var n int
	var err error
	if docType == "circular" {
		n, err = p.IngestCircular(ctx, path)
	} else {
		n, err = p.IngestSchedule(ctx, path)
	}
	if err != nil {
		logger.Errorf("ingestion failed for %s: %v", path, err)
		return
	}
	logger.Printf("Ingested %d records from %s", n, path)
}

func isSupportedFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".xlsx", ".xlsm":
		return true
	}
	return false
}
