package domain

import "time"

// Quality tiers a produce photo can be graded into.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

// ProduceDescription is the structured label produced for one uploaded
// produce photo. Optional fields are nil when the model could not determine
// them. Values are never mutated after creation.
type ProduceDescription struct {
	Item            string  `json:"item"`
	Quality         *string `json:"quality"`
	Price           *string `json:"price"`
	DishDescription *string `json:"dish_description"`
}

// ShoppingProfile is the household profile a report is generated against.
// Fields are free-form labels chosen by the user (e.g. "2", "vegan",
// "moderate"); they are embedded into prompts as-is.
type ShoppingProfile struct {
	People string `json:"people"`
	Diet   string `json:"diet"`
	Budget string `json:"budget"`
}

type ItemAnalysis struct {
	Item     string `json:"item"`
	Analysis string `json:"analysis"`
}

// Recommendation pairs a free-text buying instruction with a short standalone
// recipe name usable as an image-generation seed. RecipeName may be empty
// when the recommendation was synthesized rather than model-produced.
type Recommendation struct {
	Instruction string `json:"instruction"`
	RecipeName  string `json:"recipeName"`
}

// ShoppingReport is the structured sustainability report for one session.
// GeneratedAt is attached by the service after generation; it is never part
// of the model output.
type ShoppingReport struct {
	Summary             string           `json:"summary"`
	SustainabilityScore int              `json:"sustainabilityScore"`
	ItemAnalysis        []ItemAnalysis   `json:"itemAnalysis"`
	Recommendations     []Recommendation `json:"recommendations"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}

// ReportResult is the outcome of one report request. Generation failures are
// ordinary data rather than errors so callers can render them directly.
type ReportResult struct {
	Success bool            `json:"success"`
	Report  *ShoppingReport `json:"report,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SavedReport is one entry of the report history.
type SavedReport struct {
	ID                  int64     `json:"id"`
	GeneratedAt         time.Time `json:"generatedAt"`
	People              string    `json:"people"`
	Diet                string    `json:"diet"`
	Budget              string    `json:"budget"`
	SustainabilityScore int       `json:"sustainabilityScore"`
	Summary             string    `json:"summary"`
	Items               []string  `json:"items"`
}
