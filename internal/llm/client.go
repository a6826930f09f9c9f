// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/proplens/internal/logger"
)

// Client talks to an OpenAI-compatible chat completions endpoint. When an
// OpenAI API key is configured it is tried first, with a local endpoint as
// fallback; total failure yields an empty mapping, never an error that halts
// the pipeline.
type Client struct {
	OpenAIKey   string
	OpenAIURL   string
	OpenAIModel string
	LocalURL    string
	LocalModel  string

	httpClient *http.Client
}

// NewClient builds a client. localURL/localModel must be non-empty; openAIKey
// may be empty, in which case only the local endpoint is used.
func NewClient(openAIKey, openAIModel, localURL, localModel string) *Client {
	if openAIModel == "" {
		openAIModel = "gpt-4o-mini"
	}
	return &Client{
		OpenAIKey:   openAIKey,
		OpenAIURL:   "https://api.openai.com/v1/chat/completions",
		OpenAIModel: openAIModel,
		LocalURL:    localURL,
		LocalModel:  localModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a data extraction agent. Return ONLY valid JSON."

func (c *Client) request(ctx context.Context, url, model, apiKey string, messages []chatMessage, temperature float64, maxTokens int) (string, error) {
	body := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      false,
	}
	if maxTokens > 0 {
		body.MaxTokens = maxTokens
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API error: %d - %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// askContent runs the OpenAI-then-local fallback and returns the raw model
// content, or "" when every endpoint failed.
func (c *Client) askContent(ctx context.Context, messages []chatMessage, temperature float64, maxTokens int) string {
	if c.OpenAIKey != "" {
		content, err := c.request(ctx, c.OpenAIURL, c.OpenAIModel, c.OpenAIKey, messages, temperature, maxTokens)
		if err == nil && content != "" {
			return content
		}
		if err != nil {
			logger.Warnf("llm: OpenAI request failed: %v, falling back to local endpoint", err)
		}
	}

	content, err := c.request(ctx, c.LocalURL, c.LocalModel, "", messages, temperature, maxTokens)
	if err != nil {
		logger.Warnf("llm: local request to %s failed: %v", c.LocalURL, err)
		return ""
	}
	return content
}

// AskJSON sends a prompt and returns the parsed JSON object from the
// response. Total failure (no endpoint reachable, or nothing parseable)
// returns an empty map; the caller treats that as zero candidates.
func (c *Client) AskJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) map[string]interface{} {
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	content := c.askContent(ctx, messages, temperature, maxTokens)
	if content == "" {
		logger.Errorf("llm: not available")
		return map[string]interface{}{}
	}
	return parseJSONContent(content)
}

// ParseTableChunk sends a chunk prompt and shapes the result to a mapping
// with a "tasks" key. A bare JSON array is accepted as the task list.
func (c *Client) ParseTableChunk(ctx context.Context, prompt string) map[string]interface{} {
	result := c.AskJSON(ctx, prompt, 0.0, 0)

	if tasks, ok := result["tasks"]; ok {
		if _, isList := tasks.([]interface{}); isList {
			return result
		}
	}
	if arr, ok := result["_array"]; ok {
		return map[string]interface{}{"tasks": arr}
	}
	return map[string]interface{}{"tasks": []interface{}{}}
}

var jsonBlock = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

// parseJSONContent extracts and parses the JSON payload from raw model
// output. Markdown fences and minor malformation are tolerated: strict JSON
// first, then newline-sanitized, then a permissive pass for single-quoted
// and Python-style literals. A top-level array is wrapped under "_array".
func parseJSONContent(content string) map[string]interface{} {
	cleaned := strings.TrimSpace(content)
	if m := jsonBlock.FindString(cleaned); m != "" {
		cleaned = m
	}

	if out, ok := tryUnmarshal(cleaned); ok {
		return out
	}
	if out, ok := tryUnmarshal(strings.ReplaceAll(cleaned, "\n", " ")); ok {
		return out
	}
	if out, ok := tryUnmarshal(permissiveRewrite(cleaned)); ok {
		return out
	}

	logger.Errorf("llm: all JSON parsing attempts failed")
	logger.Debugf("llm: failed content: %.500s", cleaned)
	return map[string]interface{}{}
}

func tryUnmarshal(s string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}
	var arr []interface{}
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return map[string]interface{}{"_array": arr}, true
	}
	return nil, false
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// permissiveRewrite converts Python-literal output (single quotes, True,
// None, trailing commas) into something json.Unmarshal accepts. Quotes
// inside double-quoted strings are left alone.
func permissiveRewrite(s string) string {
	var b strings.Builder
	inDouble := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && (i == 0 || s[i-1] != '\\'):
			inDouble = !inDouble
			b.WriteByte(ch)
		case ch == '\'' && !inDouble:
			b.WriteByte('"')
		default:
			b.WriteByte(ch)
		}
	}
	out := b.String()
	out = strings.ReplaceAll(out, ": True", ": true")
	out = strings.ReplaceAll(out, ": False", ": false")
	out = strings.ReplaceAll(out, ": None", ": null")
	out = trailingComma.ReplaceAllString(out, "$1")
	return strings.ReplaceAll(out, "\n", " ")
}
