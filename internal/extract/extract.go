// Package extract turns unreliable free-text model output into validated
// structured values. Generative models carry no binding contract to return
// valid JSON, so decoding runs as an ordered list of attempts: the
// fence-stripped text, then the first brace-delimited substring. When every
// attempt fails the caller-supplied fallback synthesizes a default value from
// the caller's own inputs, so Decode always leaves its target populated.
package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Field names a required member of the expected JSON object. Array marks
// members that must decode as JSON arrays.
type Field struct {
	Name  string
	Array bool
}

// Decode fills v from the first decoding attempt that yields a JSON object
// carrying every required field, or invokes fallback to populate v when all
// attempts fail. It never returns an error: a shape problem in model output
// is recovered here, not propagated. The return value reports whether v came
// from real model output (true) or from fallback synthesis (false).
func Decode(logger *slog.Logger, raw string, required []Field, v any, fallback func()) bool {
	seen := make(map[string]bool, 2)
	for _, candidate := range candidates(raw) {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true

		if err := decodeObject(candidate, required, v); err != nil {
			logger.Warn("model output failed structured decode",
				"error", err,
				"raw", Redact(raw),
			)
			continue
		}
		return true
	}

	fallback()
	return false
}

// candidates returns the decoding attempts for raw, in order.
func candidates(raw string) []string {
	return []string{
		StripFences(raw),
		firstObject(raw),
	}
}

// decodeObject parses candidate as a JSON object, verifies the required
// fields, and unmarshals it into v.
func decodeObject(candidate string, required []Field, v any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return fmt.Errorf("not a JSON object: %w", err)
	}

	for _, f := range required {
		val, ok := obj[f.Name]
		if !ok || string(val) == "null" {
			return fmt.Errorf("missing required field %q", f.Name)
		}
		if f.Array {
			var arr []json.RawMessage
			if err := json.Unmarshal(val, &arr); err != nil {
				return fmt.Errorf("field %q is not an array", f.Name)
			}
		}
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("object does not match expected shape: %w", err)
	}
	return nil
}

// StripFences removes a leading/trailing markdown code fence, including an
// optional language tag after the opening fence, and trims whitespace.
// Models commonly wrap JSON replies in ```json fences despite being told
// not to.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag, e.g. "json", up to the first newline.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.ContainsAny(first, "{}") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// firstObject returns the first brace-delimited substring of raw, greedy to
// the last closing brace, or "" when raw contains no braces.
func firstObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// base64Run matches long base64-looking runs, the signature of an inline
// image payload echoed back by a model.
var base64Run = regexp.MustCompile(`[A-Za-z0-9+/=]{256,}`)

// Redact replaces embedded binary/image payloads in s before it is written
// to a log, keeping diagnostics readable and log volume bounded.
func Redact(s string) string {
	return base64Run.ReplaceAllStringFunc(s, func(m string) string {
		return fmt.Sprintf("[%d bytes redacted]", len(m))
	})
}
