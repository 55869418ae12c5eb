package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is a client for an OpenAI-compatible chat completions API
// (llama.cpp server, Ollama).
type Client struct {
	BaseURL  string
	APIKey   string
	Model    string
	Sampling Sampling
	client   *http.Client
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string, sampling Sampling) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Model:    model,
		Sampling: sampling,
		client:   http.DefaultClient,
	}
}

// ModelName returns the model used for completions.
func (c *Client) ModelName() string {
	return c.Model
}

func (c *Client) chatRequest(prompt string, stream bool) ChatRequest {
	return ChatRequest{
		Model: c.Model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Stream:        stream,
		Temperature:   c.Sampling.Temperature,
		TopP:          c.Sampling.TopP,
		TopK:          c.Sampling.TopK,
		RepeatPenalty: c.Sampling.RepeatPenalty,
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, accept string) (*http.Response, error) {
	return postJSON(ctx, c.client, c.BaseURL+path, c.APIKey, payload, accept)
}

// postJSON sends payload as JSON with bearer auth and returns the response if it
// has status 200. The caller closes the body.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any, accept string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return resp, nil
}

// Chat sends a single-prompt chat completion request and returns the reply text.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, "/v1/chat/completions", c.chatRequest(prompt, false), "")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StreamChat sends a streaming chat completion request.
// It reads Server-Sent Events (SSE) from the response and calls the callback for each
// non-empty fragment, in order. A callback error stops the stream and is returned.
func (c *Client) StreamChat(ctx context.Context, prompt string, callback func(chunk string) error) error {
	resp, err := c.post(ctx, "/v1/chat/completions", c.chatRequest(prompt, true), "text/event-stream")
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	const dataPrefix = "data: "

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed JSON chunks
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		if content := chunk.Choices[0].Delta.Content; content != "" {
			if err := callback(content); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if chunk.Choices[0].FinishReason != "" {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}

	return nil
}
