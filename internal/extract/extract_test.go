package extract

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Summary string   `json:"summary"`
	Score   int      `json:"score"`
	Tags    []string `json:"tags"`
}

var sampleFields = []Field{
	{Name: "summary"},
	{Name: "score"},
	{Name: "tags", Array: true},
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestDecodeValidJSON(t *testing.T) {
	raw := `{"summary":"ok","score":80,"tags":["a","b"]}`

	var got sample
	ok := Decode(discard(), raw, sampleFields, &got, func() { t.Fatal("fallback must not run") })

	require.True(t, ok)
	assert.Equal(t, sample{Summary: "ok", Score: 80, Tags: []string{"a", "b"}}, got)
}

func TestDecodeFencedJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"summary\":\"ok\",\"score\":80,\"tags\":[]}\n```"},
		{"bare fence", "```\n{\"summary\":\"ok\",\"score\":80,\"tags\":[]}\n```"},
		{"fence with whitespace", "  ```json\n  {\"summary\":\"ok\",\"score\":80,\"tags\":[]}\n```  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			ok := Decode(discard(), tt.raw, sampleFields, &got, func() {})
			require.True(t, ok, "fence stripping must be transparent")
			assert.Equal(t, "ok", got.Summary)
			assert.Equal(t, 80, got.Score)
		})
	}
}

func TestDecodeEmbeddedObject(t *testing.T) {
	raw := `Sure! Here is the report you asked for:
{"summary":"embedded","score":70,"tags":["x"]}
Let me know if you need anything else.`

	var got sample
	ok := Decode(discard(), raw, sampleFields, &got, func() {})

	require.True(t, ok)
	assert.Equal(t, "embedded", got.Summary)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestDecodeFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain prose", "I could not produce a report for that request."},
		{"no valid json between braces", "weird {not json} text"},
		{"missing required field", `{"summary":"ok","tags":[]}`},
		{"array field not an array", `{"summary":"ok","score":1,"tags":"oops"}`},
		{"required field null", `{"summary":null,"score":1,"tags":[]}`},
		{"json array not object", `[1,2,3]`},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			ok := Decode(discard(), tt.raw, sampleFields, &got, func() {
				got = sample{Summary: "fallback", Score: 75, Tags: []string{}}
			})

			require.False(t, ok)
			// The synthesized value satisfies the same shape contract as a
			// successful parse.
			assert.Equal(t, "fallback", got.Summary)
			assert.Equal(t, 75, got.Score)
			assert.NotNil(t, got.Tags)
		})
	}
}

func TestDecodeShapeMismatchFallsBack(t *testing.T) {
	// Required fields present but the value cannot decode into the target type.
	raw := `{"summary":"ok","score":"eighty","tags":[]}`

	var got sample
	ok := Decode(discard(), raw, sampleFields, &got, func() { got.Summary = "fallback" })

	require.False(t, ok)
	assert.Equal(t, "fallback", got.Summary)
}

func TestStripFencesNonFenced(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}\n"))
}

func TestStripFencesFenceOnSameLineAsObject(t *testing.T) {
	// No language tag, object starts right after the fence.
	assert.Equal(t, `{"a":1}`, StripFences("```{\"a\":1}```"))
}

func TestRedact(t *testing.T) {
	blob := strings.Repeat("A", 512)
	in := `{"image":"` + blob + `","item":"Kale"}`

	out := Redact(in)

	assert.NotContains(t, out, blob)
	assert.Contains(t, out, "[512 bytes redacted]")
	assert.Contains(t, out, "Kale")
}

func TestRedactShortRunsUntouched(t *testing.T) {
	in := "quality is good, price is null"
	assert.Equal(t, in, Redact(in))
}
