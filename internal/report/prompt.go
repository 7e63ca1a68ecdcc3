package report

import (
	"fmt"
	"strings"

	"github.com/greencart/greencart/internal/domain"
)

const systemPrompt = `You are a sustainable shopping assistant that analyzes shopping sessions and provides detailed reports.
You always respond with valid JSON objects without any markdown formatting.
Your reports are concise, informative, and focused on sustainability.
Analyze the actual items the user has in their shopping cart, not generic items.`

// noItemsSentence substitutes for the item list when the session is empty.
const noItemsSentence = "No items have been added to this shopping session yet."

// buildPrompt embeds the profile and numbered item list into the report
// instruction. Labels are interpolated as-is; downstream renderers must treat
// report text as untrusted.
func buildPrompt(labels []string, profile domain.ShoppingProfile) string {
	var items strings.Builder
	if len(labels) == 0 {
		items.WriteString(noItemsSentence)
	} else {
		for i, label := range labels {
			fmt.Fprintf(&items, "%d. %s\n", i+1, label)
		}
	}

	return fmt.Sprintf(`Generate a detailed sustainable shopping report based on the following information:

Shopping Profile:
- Shopping for %s people
- Diet preference: %s
- Budget type: %s

Shopping Items:
%s

Please provide a comprehensive report that includes:
1. A brief summary of the shopping choices based on the ACTUAL items listed above
2. A sustainability score (0-100)
3. Analysis of each specific item listed above (not generic items)
4. Recommendations for more sustainable shopping, each naming concrete items, quantities,
   approximate costs, a recipe idea, and nutrition notes, plus a short standalone recipe
   name for the recipe idea

IMPORTANT: Return ONLY a JSON object with no markdown formatting, code blocks, or backticks.
The response should be a valid JSON object with the following structure:
{
  "summary": "Brief overview of the shopping session",
  "sustainabilityScore": 85,
  "itemAnalysis": [
    { "item": "Item name from the list", "analysis": "Sustainability analysis" }
  ],
  "recommendations": [
    { "instruction": "Buying instruction with items, quantities, costs, recipe idea and nutrition notes", "recipeName": "Short recipe name" }
  ]
}`,
		profile.People, profile.Diet, profile.Budget, items.String())
}

// joinLabels renders labels for the fallback summary sentence.
func joinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}
