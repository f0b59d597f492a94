package validation

import "encoding/json"

// Text fields probed, in order, when structured extraction comes up empty.
// Structured strategy prose first, then the raw provider payload.
var textSourceFields = []string{"solvingStrategy", "patternDescription", "providerRawResponse"}

func decodeJSONValue(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// textSources returns the ordered free-text fields of a response that may
// embed a grid in prose.
func textSources(resp map[string]any) []string {
	var sources []string
	for _, field := range textSourceFields {
		if s, ok := resp[field].(string); ok && s != "" {
			sources = append(sources, s)
		}
	}
	if wrapped, ok := resp["result"].(map[string]any); ok {
		for _, field := range textSourceFields {
			if s, ok := wrapped[field].(string); ok && s != "" {
				sources = append(sources, s)
			}
		}
	}
	return sources
}
