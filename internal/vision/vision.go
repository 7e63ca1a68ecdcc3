// Package vision labels produce photos. One photo in, one structured
// ProduceDescription out; the model reply is coerced through the tiered
// extraction policy so a malformed reply still yields a usable label.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greencart/greencart/internal/domain"
	"github.com/greencart/greencart/internal/extract"
	"github.com/greencart/greencart/internal/llm"
)

// DescribePrompt is the single-turn instruction sent with every produce photo.
const DescribePrompt = `Analyze this produce image. Provide a JSON response with these fields:
item (the produce name), quality (excellent/good/fair/poor), price (if visible, otherwise null),
and dish_description (a short description of a dish this produce works in, without quantities).
Example: {"item": "Red Apples", "quality": "good", "price": "$2.99/lb", "dish_description": "a crisp autumn salad"}`

// Sampling is fixed low: labelling a photo is a factual-extraction task.
const (
	describeTemperature = 0.3
	describeMaxTokens   = 150
)

var requiredFields = []extract.Field{{Name: "item"}}

type Describer struct {
	model  llm.VisionCompleter
	logger *slog.Logger
}

func NewDescriber(model llm.VisionCompleter, logger *slog.Logger) *Describer {
	return &Describer{model: model, logger: logger}
}

// Describe labels one produce photo. Transport and provider failures
// propagate to the caller; a reply with a broken shape does not — it degrades
// to a description built from whatever text came back.
func (d *Describer) Describe(ctx context.Context, imageData []byte, mimeType string) (*domain.ProduceDescription, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	raw, err := d.model.CompleteVision(ctx, llm.VisionRequest{
		Prompt:      DescribePrompt,
		ImageData:   imageData,
		MimeType:    mimeType,
		Temperature: describeTemperature,
		MaxTokens:   describeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe produce: %w", err)
	}

	var wire struct {
		Item            string  `json:"item"`
		Quality         *string `json:"quality"`
		Price           *string `json:"price"`
		DishDescription *string `json:"dish_description"`
	}
	fromModel := extract.Decode(d.logger, raw, requiredFields, &wire, func() {
		// Even total extraction failure surfaces whatever text came back.
		item := strings.TrimSpace(raw)
		if item == "" {
			item = "Unknown item"
		}
		wire.Item = item
		wire.Quality = nil
		wire.Price = nil
		wire.DishDescription = nil
	})
	if !fromModel {
		d.logger.Info("produce description synthesized from raw reply")
	}

	return &domain.ProduceDescription{
		Item:            wire.Item,
		Quality:         normalizeQuality(wire.Quality),
		Price:           wire.Price,
		DishDescription: wire.DishDescription,
	}, nil
}

// normalizeQuality lowercases the model's quality tier and drops values
// outside the known set.
func normalizeQuality(q *string) *string {
	if q == nil {
		return nil
	}
	tier := strings.ToLower(strings.TrimSpace(*q))
	switch tier {
	case domain.QualityExcellent, domain.QualityGood, domain.QualityFair, domain.QualityPoor:
		return &tier
	}
	return nil
}
