package enrich

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

// EnrichmentParseError reports a completion reply that could not be read as
// the expected JSON shape.
type EnrichmentParseError struct {
	Raw string
	Err error
}

func (e *EnrichmentParseError) Error() string {
	return fmt.Sprintf("enrich: unparseable reply: %v", e.Err)
}

func (e *EnrichmentParseError) Unwrap() error {
	return e.Err
}

// replySchema only requires an object. Enrichment entries are checked one
// at a time with entrySchema so a single bad entry does not sink the rest.
var replySchema = gojsonschema.NewStringLoader(`{"type": "object"}`)

// entrySchema describes one enrichment entry. Numeric confidences must lie
// in [0, 100]; string confidences are range-checked after parsing.
var entrySchema = mustSchema(`{
  "type": "object",
  "required": ["value", "confidence"],
  "properties": {
    "confidence": {
      "anyOf": [
        {"type": "number", "minimum": 0, "maximum": 100},
        {"type": "string"}
      ]
    },
    "evidence": {"type": ["string", "null"]},
    "source": {"type": ["string", "null"]}
  }
}`)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// cleanJSON extracts a JSON object from text that may be wrapped in
// markdown code fences or prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimPrefix(text, fence)
			if idx := strings.LastIndex(text, "```"); idx >= 0 {
				text = text[:idx]
			}
			break
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// parseReply decodes a reply into an object and checks it against schema.
func parseReply(raw string, schema gojsonschema.JSONLoader) (map[string]any, error) {
	cleaned := cleanJSON(raw)

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &EnrichmentParseError{Raw: raw, Err: eris.Wrap(err, "decode json")}
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &EnrichmentParseError{Raw: raw, Err: eris.Wrap(err, "schema check")}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &EnrichmentParseError{Raw: raw, Err: eris.New(strings.Join(msgs, "; "))}
	}

	return doc, nil
}

// parseEntry checks one enrichment entry and returns its value and
// confidence. Malformed entries, null values and confidences that are
// unreadable or outside [0, 100] are errors.
func parseEntry(v any) (any, float64, error) {
	result, err := entrySchema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return nil, 0, eris.Wrap(err, "entry schema check")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, 0, eris.New(strings.Join(msgs, "; "))
	}

	entry := v.(map[string]any)
	confidence, ok := toFloat64(entry["confidence"])
	if !ok {
		return nil, 0, eris.Errorf("unreadable confidence %v", entry["confidence"])
	}
	if confidence < 0 || confidence > 100 {
		return nil, 0, eris.Errorf("confidence %v out of range", confidence)
	}
	if entry["value"] == nil {
		return nil, confidence, eris.New("null value")
	}
	return entry["value"], confidence, nil
}

// toFloat64 reads a confidence that may arrive as a number or a string
// such as "85" or "85%".
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
