// Package groq is an adapter for the Groq OpenAI-compatible chat-completions
// API, covering both plain text completions and vision requests with an
// inline image.
package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/greencart/greencart/internal/llm"
)

const defaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

type Client struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewClient creates a Groq client bound to one model. The text and vision
// flows use separate models, so each constructs its own client.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: defaultAPIURL,
	}
}

// request types mirror the OpenAI-compatible chat-completions structure.
type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type message struct {
	Role string `json:"role"`
	// Content is a string for text-only turns and a []part for multimodal
	// turns; the API accepts both encodings.
	Content any `json:"content"`
}

type part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	msgs := make([]message, 0, 2)
	if req.System != "" {
		msgs = append(msgs, message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, message{Role: "user", Content: req.Prompt})

	return c.complete(ctx, request{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

func (c *Client) CompleteVision(ctx context.Context, req llm.VisionRequest) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		req.MimeType, base64.StdEncoding.EncodeToString(req.ImageData))

	msgs := []message{{
		Role: "user",
		Content: []part{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		},
	}}

	return c.complete(ctx, request{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

func (c *Client) complete(ctx context.Context, body request) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to call groq: %v", llm.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: groq returned status %d: %s",
			llm.ErrUnavailable, resp.StatusCode, errBody)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("%w: failed to decode groq response: %v", llm.ErrUnavailable, err)
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("%w: groq returned no choices", llm.ErrUnavailable)
	}

	return respBody.Choices[0].Message.Content, nil
}
