// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package discovery

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

const visionPrompt = `You are a Data Engineer. Extract construction schedule tasks from this page image.

Instructions:
1. Return ONLY valid JSON with a key 'tasks'.
2. Schema: { "task_id": int, "task_name": str, "duration_days": int, "start_date": "YYYY-MM-DD", "finish_date": "YYYY-MM-DD" }
3. Skip rows where the ID is empty or not a number.
4. Do NOT merge multiple rows into one task.`

// VisionModel is the image-capable model-query collaborator.
type VisionModel interface {
	AskJSONVision(ctx context.Context, png []byte, prompt string, temperature float64, maxTokens int) map[string]interface{}
}

// VisionExtractor is the alternate cascade: each page is rendered to an
// image and handed whole to a vision model, skipping the grid, layout and
// OCR tiers entirely.
type VisionExtractor struct {
	model VisionModel
}

// NewVisionExtractor wires a vision-capable model client.
func NewVisionExtractor(model VisionModel) *VisionExtractor {
	return &VisionExtractor{model: model}
}

// ExtractTasks renders every page and collects candidates from the model's
// per-page responses. A failed page contributes nothing; it never aborts the
// remaining pages.
func (v *VisionExtractor) ExtractTasks(ctx context.Context, path string) ([]schema.Candidate, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var candidates []schema.Candidate
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			logger.Warnf("discovery: failed to render page %d: %v", i+1, err)
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			logger.Warnf("discovery: failed to encode page %d: %v", i+1, err)
			continue
		}

		result := v.model.AskJSONVision(ctx, buf.Bytes(), visionPrompt, 0.0, 0)
		items, ok := result["tasks"].([]interface{})
		if !ok {
			logger.Warnf("discovery: vision model returned no tasks for page %d", i+1)
			continue
		}
		candidates = append(candidates, schema.CandidatesFromList(items, "vision")...)
	}
	return candidates, nil
}
