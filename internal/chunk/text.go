// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunk

import (
	"strings"
)

// TextChunker splits long document text into windows for per-chunk model
// calls, preferring sentence boundaries near the window edge.
type TextChunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewTextChunker creates a chunker. Non-positive size falls back to 1500
// characters, the window the circular extractor uses.
func NewTextChunker(size, overlap int) *TextChunker {
	if size <= 0 {
		size = 1500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &TextChunker{chunkSize: size, chunkOverlap: overlap}
}

// Split splits text into chunks, trying to avoid cutting sentences.
func (c *TextChunker) Split(text string) []string {
	if len(text) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	textLen := len(text)

	for start < textLen {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		// Look for a sentence ending in the last stretch of the window.
		if end < textLen {
			searchStart := end - 200
			if searchStart < start {
				searchStart = start
			}
			for i := end - 1; i >= searchStart; i-- {
				ch := text[i]
				if (ch == '.' || ch == '!' || ch == '?') && i+1 < textLen {
					next := text[i+1]
					if next == ' ' || next == '\n' || next == '\r' {
						end = i + 1
						break
					}
				}
				if ch == '\n' && i+1 < textLen && text[i+1] == '\n' {
					end = i + 2
					break
				}
			}
		}

		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end >= textLen {
			break
		}
		start = end - c.chunkOverlap
		if start < 0 {
			start = 0
		}
		if start >= end {
			start = end
		}
	}

	return chunks
}
