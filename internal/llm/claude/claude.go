// Package claude adapts the Anthropic Messages API as a vision backend, via
// the go-anthropic client.
package claude

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/greencart/greencart/internal/llm"
)

type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient creates a Claude vision client. Extra options are passed through
// to the underlying anthropic client (tests use anthropic.WithBaseURL).
func NewClient(apiKey, model string, opts ...anthropic.ClientOption) *Client {
	return &Client{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *Client) CompleteVision(ctx context.Context, req llm.VisionRequest) (string, error) {
	temp := req.Temperature

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   req.MaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					mediaType(req.MimeType),
					req.ImageData,
				)),
				anthropic.NewTextMessageContent(req.Prompt),
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to call claude: %v", llm.ErrUnavailable, err)
	}

	return resp.GetFirstContentText(), nil
}

// mediaType maps browser MIME types to the values the Anthropic API accepts.
// Unknown types are coerced to jpeg as the most universally supported lossy
// fallback; callers validate MIME types before reaching this layer.
func mediaType(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
