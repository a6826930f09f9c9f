// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package circular extracts regulatory rules from circular documents. The
// document's full text is window-chunked and each window goes to the model
// with a rules-extraction prompt; there is no merge step for rules.
package circular

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/proplens/internal/chunk"
	"github.com/proplens/internal/logger"
	"github.com/proplens/internal/schema"
)

// ruleWindow is the character window per model call.
const ruleWindow = 1500

const rulePromptFormat = `Extract 'Regulatory Rules' from this text.
Return a JSON object: { "rules": [ { "rule_id": "...", "rule_summary": "...", "measurement_basis": "..." } ] }

Text:
%s`

// JSONModel is the model-query collaborator for rule extraction.
type JSONModel interface {
	AskJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) map[string]interface{}
}

// Extractor extracts rules from circular PDFs.
type Extractor struct {
	model   JSONModel
	chunker *chunk.TextChunker
}

// NewExtractor wires the model client.
func NewExtractor(model JSONModel) *Extractor {
	return &Extractor{
		model:   model,
		chunker: chunk.NewTextChunker(ruleWindow, 0),
	}
}

// ExtractRules pulls the document's full text and extracts rules window by
// window. A failed window contributes nothing and never aborts the rest.
func (e *Extractor) ExtractRules(ctx context.Context, path string) ([]schema.RuleRecord, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, err
	}

	windows := e.chunker.Split(text)
	logger.Printf("circular: text split into %d chunks", len(windows))

	var rules []schema.RuleRecord
	for i, w := range windows {
		data := e.model.AskJSON(ctx, fmt.Sprintf(rulePromptFormat, w), 0.0, 2000)
		items, ok := data["rules"].([]interface{})
		if !ok {
			logger.Warnf("circular: chunk %d/%d yielded no rules", i+1, len(windows))
			continue
		}

		count := 0
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			rules = append(rules, ruleFromMap(m))
			count++
		}
		logger.Printf("circular: chunk %d/%d: found %d rules", i+1, len(windows), count)
	}

	logger.Printf("circular: total extracted: %d rules", len(rules))
	return rules, nil
}

func ruleFromMap(m map[string]interface{}) schema.RuleRecord {
	id := stringField(m, "rule_id")
	if id == "" {
		id = "Unknown"
	}
	basis := stringField(m, "measurement_basis")
	if basis == "" {
		basis = "N/A"
	}
	return schema.RuleRecord{
		RuleID:           id,
		RuleSummary:      stringField(m, "rule_summary"),
		MeasurementBasis: basis,
	}
}

func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// extractText concatenates page text via go-fitz. Pages that fail extraction
// are skipped.
func extractText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logger.Warnf("circular: failed to extract text from page %d: %v", i+1, err)
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
