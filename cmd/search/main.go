// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/proplens/internal/config"
	"github.com/proplens/internal/embeddings"
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/pipeline"
	"github.com/proplens/internal/vectordb"
)

var (
	query      = flag.String("query", "", "Search query")
	topK       = flag.Int("k", 5, "Number of results")
	configPath = flag.String("config", "", "Config file path (YAML)")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	if *query == "" {
		logger.Fatalf("-query is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
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

	conn, err := grpc.Dial(cfg.Qdrant.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer conn.Close()

	index, err := vectordb.NewQdrantDB(conn, cfg.Qdrant.Collection, embedder.Dimension())
	if err != nil {
		logger.Fatalf("failed to init vector db: %v", err)
	}

	p := pipeline.New(nil, nil, nil, nil, embedder, index)

	hits, err := p.Search(context.Background(), *query, *topK)
	if err != nil {
		logger.Fatalf("search failed: %v", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, hit := range hits {
		fmt.Printf("%d. [%.3f] %s\n", i+1, hit.Score, hit.Text)
		if src := hit.Metadata["source"]; src != "" {
			fmt.Printf("   source: %s", src)
			if b := hit.Metadata["building"]; b != "" {
				fmt.Printf("  building: %s", b)
			}
			fmt.Println()
		}
	}
}
