// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package vectordb wraps the Qdrant gRPC services behind a small interface
// the pipeline can mock in tests.
package vectordb

import (
	"context"
	"errors"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/proplens/internal/logger"
)

// Match is a vector search hit.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// VectorDB is the indexing surface the pipeline depends on.
type VectorDB interface {
	AddDocuments(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]string) error
	Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error)
	Delete(ctx context.Context, ids []string) error
}

// QdrantDB talks to Qdrant over gRPC.
type QdrantDB struct {
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	collection  string
	dimension   int
}

// NewQdrantDB wraps an established gRPC connection and ensures the named
// collection exists with the given vector dimension.
func NewQdrantDB(conn *grpc.ClientConn, collection string, dimension int) (*QdrantDB, error) {
	if conn == nil {
		return nil, errors.New("qdrant connection is required")
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension %d", dimension)
	}

	db := &QdrantDB{
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		collection:  collection,
		dimension:   dimension,
	}

	if err := db.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	return db, nil
}

func (q *QdrantDB) ensureCollection(ctx context.Context) error {
	list, err := q.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			return nil
		}
	}

	logger.Printf("Creating Qdrant collection %s (dim=%d)", q.collection, q.dimension)
	_, err = q.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(q.dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// AddDocuments upserts vectors with their payloads. ids, vectors and payloads
// must be parallel slices.
func (q *QdrantDB) AddDocuments(ctx context.Context, ids []string, vectors [][]float32, payloads []map[string]string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(vectors) != len(ids) || len(payloads) != len(ids) {
		return fmt.Errorf("mismatched lengths: %d ids, %d vectors, %d payloads", len(ids), len(vectors), len(payloads))
	}

	points := make([]*qdrant.PointStruct, 0, len(ids))
	for i, id := range ids {
		if len(vectors[i]) != q.dimension {
			return fmt.Errorf("vector %d has dimension %d, collection expects %d", i, len(vectors[i]), q.dimension)
		}

		payload := make(map[string]*qdrant.Value, len(payloads[i]))
		for k, v := range payloads[i] {
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
		}

		points = append(points, &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: id},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vectors[i]},
				},
			},
			Payload: payload,
		})
	}

	wait := true
	_, err := q.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search runs a similarity query and returns the top K matches with payloads.
func (q *QdrantDB) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if len(queryVector) == 0 {
		return nil, errors.New("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	resp, err := q.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: q.collection,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]Match, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		metadata := make(map[string]string, len(point.GetPayload()))
		for k, v := range point.GetPayload() {
			metadata[k] = v.GetStringValue()
		}
		matches = append(matches, Match{
			ID:       point.GetId().GetUuid(),
			Score:    point.GetScore(),
			Metadata: metadata,
		})
	}
	return matches, nil
}

// Delete removes points by id.
func (q *QdrantDB) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}}
	}

	wait := true
	_, err := q.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d points: %w", len(ids), err)
	}
	return nil
}
