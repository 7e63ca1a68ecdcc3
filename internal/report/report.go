// Package report turns a shopping session (item labels plus a household
// profile) into a structured sustainability report.
package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/greencart/greencart/internal/domain"
	"github.com/greencart/greencart/internal/extract"
	"github.com/greencart/greencart/internal/llm"
)

// Sampling is moderate: the report should be creative but bounded.
const (
	reportTemperature = 0.7
	reportMaxTokens   = 1000
)

var requiredFields = []extract.Field{
	{Name: "summary"},
	{Name: "sustainabilityScore"},
	{Name: "itemAnalysis", Array: true},
	{Name: "recommendations", Array: true},
}

type Generator struct {
	model  llm.TextCompleter
	logger *slog.Logger
	now    func() time.Time
}

func NewGenerator(model llm.TextCompleter, logger *slog.Logger) *Generator {
	return &Generator{model: model, logger: logger, now: time.Now}
}

// reportWire is the JSON shape requested from the model.
type reportWire struct {
	Summary             string               `json:"summary"`
	SustainabilityScore int                  `json:"sustainabilityScore"`
	ItemAnalysis        []domain.ItemAnalysis `json:"itemAnalysis"`
	Recommendations     []recommendationWire `json:"recommendations"`
}

// recommendationWire tolerates both encodings models produce: the requested
// {"instruction","recipeName"} object and a bare instruction string.
type recommendationWire struct {
	domain.Recommendation
}

func (r *recommendationWire) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Instruction = s
		r.RecipeName = ""
		return nil
	}
	return json.Unmarshal(data, &r.Recommendation)
}

// Generate produces one report. Failures reaching the model service are
// returned as data ({Success:false}) so the caller can render them directly;
// shape failures in the reply are recovered internally and never surface.
func (g *Generator) Generate(ctx context.Context, labels []string, profile domain.ShoppingProfile) domain.ReportResult {
	raw, err := g.model.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(labels, profile),
		Temperature: reportTemperature,
		MaxTokens:   reportMaxTokens,
	})
	if err != nil {
		g.logger.Error("report generation failed", "error", err, "items", len(labels))
		return domain.ReportResult{
			Success: false,
			Error:   "Failed to generate report. Please try again.",
		}
	}

	var wire reportWire
	fromModel := extract.Decode(g.logger, raw, requiredFields, &wire, func() {
		wire = fallbackReport(labels, profile)
	})
	if !fromModel {
		g.logger.Info("report synthesized from fallback", "items", len(labels))
	}

	recs := make([]domain.Recommendation, 0, len(wire.Recommendations))
	for _, r := range wire.Recommendations {
		recs = append(recs, r.Recommendation)
	}

	return domain.ReportResult{
		Success: true,
		Report: &domain.ShoppingReport{
			Summary:             wire.Summary,
			SustainabilityScore: clampScore(wire.SustainabilityScore),
			ItemAnalysis:        wire.ItemAnalysis,
			Recommendations:     recs,
			// Attached here, never part of the model-produced JSON.
			GeneratedAt: g.now().UTC(),
		},
	}
}

// fallbackReport synthesizes a report purely from the caller's inputs, for
// replies where no JSON interpretation succeeds.
func fallbackReport(labels []string, profile domain.ShoppingProfile) reportWire {
	analysis := make([]domain.ItemAnalysis, 0, len(labels))
	for _, label := range labels {
		analysis = append(analysis, domain.ItemAnalysis{
			Item: label,
			Analysis: "This item is commonly found in " + profile.Diet +
				" diets. Consider local and organic options when available.",
		})
	}

	return reportWire{
		Summary: "We analyzed your shopping session with " + joinLabels(labels) +
			" based on your " + profile.Diet + " diet profile.",
		SustainabilityScore: 75,
		ItemAnalysis:        analysis,
		Recommendations: []recommendationWire{
			{domain.Recommendation{Instruction: "Consider buying local produce when possible"}},
			{domain.Recommendation{Instruction: "Reduce packaging waste by buying in bulk"}},
			{domain.Recommendation{Instruction: "Look for sustainable alternatives to common items"}},
		},
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
