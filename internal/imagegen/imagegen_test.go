package imagegen

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("fp-test")
	client.baseURL = server.URL
	client.seed = func() int { return 42 }

	svc := NewService(client, discard())
	if p, ok := svc.poller.(*Poller); ok {
		p.interval = 0
	}
	return svc, client
}

func TestVisualizeInlineImage(t *testing.T) {
	var submits, polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		submits.Add(1)

		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "food photography of Kale Caesar Salad", req.Prompt)
		assert.NotEmpty(t, req.NegativePrompt)
		assert.Equal(t, 42, req.Seed)
		assert.Equal(t, "square_1_1", req.Image.Size)
		assert.Equal(t, "fp-test", r.Header.Get("x-freepik-api-key"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"base64": "aGVsbG8="}},
		})
	})
	mux.HandleFunc("GET /v1/ai/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
	})

	svc, _ := newTestService(t, mux)

	url, err := svc.Visualize(context.Background(), "Kale Caesar Salad")
	require.NoError(t, err)

	// Inline data resolves immediately as a data URL, with zero status polls.
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	assert.Contains(t, url, "aGVsbG8=")
	assert.Equal(t, int32(1), submits.Load())
	assert.Equal(t, int32(0), polls.Load())
}

func TestVisualizePollsUntilComplete(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"task_id": "task-77"})
	})
	mux.HandleFunc("GET /v1/ai/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "task-77", r.PathValue("id"))
		switch polls.Add(1) {
		case 1, 2:
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "pending"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "completed",
				"result": map[string]any{
					"images": []map[string]string{{"url": "https://img/final.jpg"}},
				},
			})
		}
	})

	svc, _ := newTestService(t, mux)

	url, err := svc.Visualize(context.Background(), "Lemon Tart")
	require.NoError(t, err)
	assert.Equal(t, "https://img/final.jpg", url)
	assert.Equal(t, int32(3), polls.Load(), "pending, pending, completed")
}

func TestVisualizeJobFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"task_id": "task-9"})
	})
	mux.HandleFunc("GET /v1/ai/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "failed"})
	})

	svc, _ := newTestService(t, mux)

	_, err := svc.Visualize(context.Background(), "Lemon Tart")
	assert.ErrorIs(t, err, ErrJobFailed)
}

func TestVisualizeSubmitError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	})

	svc, _ := newTestService(t, mux)

	_, err := svc.Visualize(context.Background(), "Lemon Tart")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVisualizeEmptySubmission(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	svc, _ := newTestService(t, mux)

	_, err := svc.Visualize(context.Background(), "Lemon Tart")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSubmitTaskID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ai/text-to-image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"task_id": "task-321"})
	})

	_, client := newTestService(t, mux)

	sub, err := client.Submit(context.Background(), "food photography of soup")
	require.NoError(t, err)
	assert.Equal(t, "task-321", sub.TaskID)
	assert.Empty(t, sub.InlineImage)
}
