package solver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeResponse cleans and unmarshals a provider completion into a response
// map. It handles common LLM quirks: surrounding prose, markdown fences, and
// leading/trailing junk around the JSON object.
func DecodeResponse(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var resp map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}
	return resp, nil
}
