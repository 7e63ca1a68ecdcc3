package vision

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencart/greencart/internal/llm"
)

// fakeVisionModel returns a canned reply or error and records the request.
type fakeVisionModel struct {
	reply string
	err   error
	got   llm.VisionRequest
}

func (f *fakeVisionModel) CompleteVision(_ context.Context, req llm.VisionRequest) (string, error) {
	f.got = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newDescriber(model llm.VisionCompleter) *Describer {
	return NewDescriber(model, slog.New(slog.DiscardHandler))
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF}

func TestDescribe(t *testing.T) {
	model := &fakeVisionModel{
		reply: `{"item":"Red Apples","quality":"good","price":"$2.99/lb","dish_description":"a crisp autumn salad"}`,
	}

	desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Red Apples", desc.Item)
	require.NotNil(t, desc.Quality)
	assert.Equal(t, "good", *desc.Quality)
	require.NotNil(t, desc.Price)
	assert.Equal(t, "$2.99/lb", *desc.Price)
	require.NotNil(t, desc.DishDescription)
	assert.Equal(t, "a crisp autumn salad", *desc.DishDescription)

	// Fixed low-randomness sampling for the factual-extraction task.
	assert.InDelta(t, 0.3, model.got.Temperature, 0.001)
	assert.Equal(t, 150, model.got.MaxTokens)
	assert.Equal(t, DescribePrompt, model.got.Prompt)
}

func TestDescribeOptionalFieldsAbsent(t *testing.T) {
	model := &fakeVisionModel{reply: `{"item":"Kale","quality":null,"price":null}`}

	desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Kale", desc.Item)
	assert.Nil(t, desc.Quality)
	assert.Nil(t, desc.Price)
	assert.Nil(t, desc.DishDescription)
}

func TestDescribeFencedReply(t *testing.T) {
	model := &fakeVisionModel{reply: "```json\n{\"item\":\"Lemons\",\"quality\":\"fair\"}\n```"}

	desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Lemons", desc.Item)
}

func TestDescribeProseReplyFallsBack(t *testing.T) {
	model := &fakeVisionModel{reply: "This looks like a bunch of fresh kale leaves."}

	desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.NoError(t, err)

	// Total extraction failure still surfaces the reply text, never an empty
	// record.
	assert.Equal(t, "This looks like a bunch of fresh kale leaves.", desc.Item)
	assert.Nil(t, desc.Quality)
	assert.Nil(t, desc.Price)
	assert.Nil(t, desc.DishDescription)
}

func TestDescribeEmptyReplyFallsBack(t *testing.T) {
	model := &fakeVisionModel{reply: "   "}

	desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Unknown item", desc.Item)
}

func TestDescribeQualityNormalization(t *testing.T) {
	tests := []struct {
		name    string
		quality string
		want    *string
	}{
		{"uppercase tier", "Good", strPtr("good")},
		{"excellent tier", "excellent", strPtr("excellent")},
		{"unknown tier dropped", "amazing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeVisionModel{reply: `{"item":"Kale","quality":"` + tt.quality + `"}`}
			desc, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, desc.Quality)
			} else {
				require.NotNil(t, desc.Quality)
				assert.Equal(t, *tt.want, *desc.Quality)
			}
		})
	}
}

func TestDescribeEmptyImage(t *testing.T) {
	model := &fakeVisionModel{reply: `{"item":"Kale"}`}

	_, err := newDescriber(model).Describe(context.Background(), nil, "image/jpeg")
	assert.Error(t, err)
}

func TestDescribeServiceUnavailable(t *testing.T) {
	model := &fakeVisionModel{err: llm.ErrUnavailable}

	_, err := newDescriber(model).Describe(context.Background(), jpegHeader, "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func strPtr(s string) *string { return &s }
