package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.freepik.com"

// Fixed generation parameters for food imagery.
const (
	negativePrompt = "text, watermark, b&w, cartoon, ugly, blurry"
	guidanceScale  = 2
	imageSize      = "square_1_1"
	styleName      = "photo"
	styleColor     = "vibrant"
	styleLighting  = "studio"
	styleFraming   = "close-up"
)

// Client talks to a Freepik-style text-to-image API: one submission request
// that returns either inline image data or an asynchronous task id, and a
// status request for task-based jobs.
type Client struct {
	apiKey  string
	client  *http.Client
	baseURL string
	seed    func() int
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		seed:    func() int { return rand.Intn(1000) },
	}
}

// Submission is the outcome of one generation request. Exactly one of
// InlineImage (a base64 payload returned synchronously) and TaskID is set.
type Submission struct {
	InlineImage string
	TaskID      string
}

// TaskState is one status observation for an asynchronous job.
type TaskState struct {
	Status   string
	ImageURL string
}

type submitRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	GuidanceScale  int     `json:"guidance_scale"`
	Seed           int     `json:"seed"`
	NumImages      int     `json:"num_images"`
	Image          struct {
		Size string `json:"size"`
	} `json:"image"`
	Styling styling `json:"styling"`
}

type styling struct {
	Style    string `json:"style"`
	Color    string `json:"color"`
	Lighting string `json:"lighting"`
	Framing  string `json:"framing"`
}

type submitResponse struct {
	Data []struct {
		Base64 string `json:"base64"`
	} `json:"data"`
	TaskID string `json:"task_id"`
}

type statusResponse struct {
	Status string `json:"status"`
	Result struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"result"`
}

// Submit creates one generation job for prompt.
func (c *Client) Submit(ctx context.Context, prompt string) (*Submission, error) {
	body := submitRequest{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		GuidanceScale:  guidanceScale,
		Seed:           c.seed(),
		NumImages:      1,
		Styling: styling{
			Style:    styleName,
			Color:    styleColor,
			Lighting: styleLighting,
			Framing:  styleFraming,
		},
	}
	body.Image.Size = imageSize

	var resp submitResponse
	if err := c.post(ctx, "/v1/ai/text-to-image", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) > 0 && resp.Data[0].Base64 != "" {
		return &Submission{InlineImage: resp.Data[0].Base64}, nil
	}
	if resp.TaskID != "" {
		return &Submission{TaskID: resp.TaskID}, nil
	}
	return nil, fmt.Errorf("%w: submission returned neither image data nor a task id", ErrUnavailable)
}

// TaskStatus reads the current state of one asynchronous job.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*TaskState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/ai/tasks/"+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-freepik-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check task: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: task status returned %d: %s",
			ErrUnavailable, resp.StatusCode, errBody)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: failed to decode task status: %v", ErrUnavailable, err)
	}

	state := &TaskState{Status: status.Status}
	if len(status.Result.Images) > 0 {
		state.ImageURL = status.Result.Images[0].URL
	}
	return state, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-freepik-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to call image service: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: image service returned %d: %s",
			ErrUnavailable, resp.StatusCode, errBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return nil
}
