package validation

import "fmt"

// Structured extraction probes the known historical response shapes in a
// fixed priority order. Each strategy fills whatever slots of the N-slot
// prediction vector it can; already-filled slots are never overwritten, so
// partial recovery from one shape falls through to the next for the rest.
//
// Strategy order:
//  1. direct single field (predictedOutput and aliases), N=1 only
//  2. numbered fields predictedOutput1..predictedOutputN, probed per slot so
//     a gap leaves only that slot to the later strategies
//  3. array field (multiplePredictedOutputs / legacy predictedOutputs) whose
//     elements are raw grids or {predictedOutput: grid} objects
//  4. the same three strategies against a nested "result" wrapper
//
// A historical quirk: multiplePredictedOutputs is sometimes a boolean flag
// rather than the array itself. The boolean form carries no grids and is
// skipped here; the numbered-field strategy covers those responses.

// slot is one entry of the prediction vector: the recovered grid (nil when
// unrecovered) and the strategy that produced it.
type slot struct {
	grid   Grid
	method string
}

const (
	methodDirectField    = "direct_field"
	methodNumberedFields = "numbered_fields"
	methodArrayField     = "array_field"
	nestedSuffix         = "_nested"
)

var directFieldAliases = []string{"predictedOutput", "predictedOutputGrid", "output"}

var arrayFieldAliases = []string{"multiplePredictedOutputs", "predictedOutputs"}

// extractSlots runs the structured strategies against a decoded response and
// returns the N-slot prediction vector. It never fails: malformed or missing
// fields simply leave slots empty.
func extractSlots(resp map[string]any, n int) []slot {
	slots := make([]slot, n)
	if resp == nil {
		return slots
	}

	fillSlots(slots, resp, "")
	if !allFilled(slots) {
		if wrapped, ok := resp["result"].(map[string]any); ok {
			fillSlots(slots, wrapped, nestedSuffix)
		}
	}
	return slots
}

func fillSlots(slots []slot, payload map[string]any, suffix string) {
	n := len(slots)

	if n == 1 && slots[0].grid == nil {
		for _, field := range directFieldAliases {
			if grid, ok := GridFromValue(payload[field]); ok {
				slots[0] = slot{grid: grid, method: methodDirectField + suffix}
				break
			}
		}
	}

	if !allFilled(slots) {
		for i := 0; i < n; i++ {
			if slots[i].grid != nil {
				continue
			}
			v, ok := payload[fmt.Sprintf("predictedOutput%d", i+1)]
			if !ok {
				continue // gap: this slot falls through to the array strategy
			}
			grid, ok := GridFromValue(v)
			if !ok {
				continue
			}
			slots[i] = slot{grid: grid, method: methodNumberedFields + suffix}
		}
	}

	if !allFilled(slots) {
		for _, field := range arrayFieldAliases {
			items, ok := payload[field].([]any)
			if !ok {
				continue // boolean-flag form or absent
			}
			for i := 0; i < n && i < len(items); i++ {
				if slots[i].grid != nil {
					continue
				}
				if grid, ok := arrayElementGrid(items[i]); ok {
					slots[i] = slot{grid: grid, method: methodArrayField + suffix}
				}
			}
			if allFilled(slots) {
				break
			}
		}
	}
}

// arrayElementGrid accepts either a raw grid or an object wrapping one under
// a predictedOutput key.
func arrayElementGrid(v any) (Grid, bool) {
	if grid, ok := GridFromValue(v); ok {
		return grid, true
	}
	if obj, ok := v.(map[string]any); ok {
		return GridFromValue(obj["predictedOutput"])
	}
	return nil, false
}

func allFilled(slots []slot) bool {
	for _, s := range slots {
		if s.grid == nil {
			return false
		}
	}
	return true
}
