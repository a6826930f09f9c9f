// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package llm

import (
	"context"
	"encoding/base64"

	"github.com/proplens/internal/logger"
)

// AskJSONVision sends a PNG page image alongside a prompt to a
// vision-capable chat endpoint. Same contract as AskJSON: empty mapping on
// total failure.
func (c *Client) AskJSONVision(ctx context.Context, png []byte, prompt string, temperature float64, maxTokens int) map[string]interface{} {
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURI}},
	}
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: content},
	}

	raw := c.askContent(ctx, messages, temperature, maxTokens)
	if raw == "" {
		logger.Errorf("llm: vision model not available")
		return map[string]interface{}{}
	}
	return parseJSONContent(raw)
}
