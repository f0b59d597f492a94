package validation

import "strings"

// ValidationResult is the atomic outcome for a single test case. Failure is
// data, not an error: a response this engine cannot parse degrades to a nil
// grid with a diagnostic extraction method, never to a thrown error.
type ValidationResult struct {
	PredictedGrid        Grid    `json:"predictedGrid"`
	IsCorrect            bool    `json:"isCorrect"`
	TrustworthinessScore float64 `json:"trustworthinessScore"`
	ExtractionMethod     string  `json:"extractionMethod"`
}

// MultiValidationResult aggregates per-test-case results for a multi-test
// puzzle. AverageScore, not pair accuracy, is the dataset-level metric
// reported elsewhere in the system.
type MultiValidationResult struct {
	Results                 []ValidationResult `json:"results"`
	AllCorrect              bool               `json:"allCorrect"`
	AverageScore            float64            `json:"averageScore"`
	ExtractionMethodSummary string             `json:"extractionMethodSummary"`
}

const (
	methodNotSolverMode   = "not_solver_mode"
	methodAllFailed       = "all_methods_failed"
	methodNotFound        = "not_found"
	wrongDimensionsSuffix = "_wrong_dimensions"
	partialSummarySuffix  = "_partial"
)

// Prompt IDs that produce explanations with nothing to grade. Unknown or
// custom prompt IDs are treated as solver prompts so grids are never
// silently ungraded.
var nonSolverPrompts = map[string]bool{
	"educational":         true,
	"educationalApproach": true,
	"alienCommunication":  true,
	"gepa":                true,
}

// IsSolverPrompt reports whether a prompt ID denotes a solving/prediction
// oriented prompt whose output carries a gradable answer grid.
func IsSolverPrompt(promptID string) bool {
	return !nonSolverPrompts[promptID]
}

// ValidateSingle validates a model response against the single expected
// output grid of a one-test puzzle.
//
// A nil expected grid is a caller bug, not a recoverable condition.
func ValidateSingle(resp map[string]any, expected Grid, promptID string, conf Confidence) ValidationResult {
	if expected == nil {
		panic("validation: expected grid must not be nil")
	}

	if !IsSolverPrompt(promptID) {
		return ValidationResult{
			IsCorrect:            true,
			TrustworthinessScore: 1.0,
			ExtractionMethod:     methodNotSolverMode,
		}
	}

	predicted, method := extractSingle(resp)
	if predicted == nil {
		return ValidationResult{
			IsCorrect:            false,
			TrustworthinessScore: TrustworthinessScore(false, conf),
			ExtractionMethod:     methodAllFailed,
		}
	}

	return grade(predicted, expected, method, conf)
}

// ValidateMulti validates a model response against the ordered expected
// output grids of a multi-test puzzle. Predicted grids are joined to expected
// grids strictly by index; there is no permutation search. Whatever subset of
// slots is recovered is graded, and unrecovered slots are padded with nil and
// scored incorrect.
//
// An empty expected-grids list is a caller bug, not a recoverable condition.
func ValidateMulti(resp map[string]any, expected []Grid, promptID string, conf Confidence) MultiValidationResult {
	if len(expected) == 0 {
		panic("validation: expected grids must not be empty")
	}
	for _, g := range expected {
		if g == nil {
			panic("validation: expected grid must not be nil")
		}
	}

	n := len(expected)

	if !IsSolverPrompt(promptID) {
		results := make([]ValidationResult, n)
		for i := range results {
			results[i] = ValidationResult{
				IsCorrect:            true,
				TrustworthinessScore: 1.0,
				ExtractionMethod:     methodNotSolverMode,
			}
		}
		return MultiValidationResult{
			Results:                 results,
			AllCorrect:              true,
			AverageScore:            1.0,
			ExtractionMethodSummary: methodNotSolverMode,
		}
	}

	slots := extractSlots(resp, n)
	if countFilled(slots) == 0 {
		fillFromText(slots, resp)
	}

	results := make([]ValidationResult, n)
	allCorrect := true
	var total float64
	var methods []string
	recovered := 0

	for i, s := range slots {
		if s.grid == nil {
			results[i] = ValidationResult{
				IsCorrect:            false,
				TrustworthinessScore: TrustworthinessScore(false, conf),
				ExtractionMethod:     methodNotFound,
			}
		} else {
			recovered++
			results[i] = grade(s.grid, expected[i], s.method, conf)
			methods = appendUnique(methods, s.method)
		}
		if !results[i].IsCorrect {
			allCorrect = false
		}
		total += results[i].TrustworthinessScore
	}

	summary := methodAllFailed
	if recovered > 0 {
		summary = strings.Join(methods, "+")
		if recovered < n {
			summary += partialSummarySuffix
		}
	}

	return MultiValidationResult{
		Results:                 results,
		AllCorrect:              allCorrect,
		AverageScore:            total / float64(n),
		ExtractionMethodSummary: summary,
	}
}

// extractSingle runs structured extraction for a one-test response and falls
// back to the text parser over the ordered text sources.
func extractSingle(resp map[string]any) (Grid, string) {
	slots := extractSlots(resp, 1)
	if slots[0].grid != nil {
		return slots[0].grid, slots[0].method
	}
	for _, text := range textSources(resp) {
		if grid, method, ok := ParseGridFromText(text); ok {
			return grid, method
		}
	}
	return nil, ""
}

// fillFromText pads empty slots, in order, from the multi-grid text parser.
// Only engaged when structured extraction recovered nothing.
func fillFromText(slots []slot, resp map[string]any) {
	n := len(slots)
	for _, text := range textSources(resp) {
		grids, method, ok := ParseGridsFromText(text, n)
		if !ok {
			continue
		}
		for i := 0; i < n && i < len(grids); i++ {
			if slots[i].grid == nil {
				slots[i] = slot{grid: grids[i], method: method}
			}
		}
		return
	}
}

// grade compares a recovered grid against the expected grid and scores it. A
// shape mismatch is reported as incorrect without cell comparison and the
// method is suffixed for diagnostics.
func grade(predicted, expected Grid, method string, conf Confidence) ValidationResult {
	var correct bool
	if !DimensionsMatch(predicted, expected) {
		method += wrongDimensionsSuffix
	} else {
		correct = Equal(predicted, expected)
	}
	return ValidationResult{
		PredictedGrid:        predicted,
		IsCorrect:            correct,
		TrustworthinessScore: TrustworthinessScore(correct, conf),
		ExtractionMethod:     method,
	}
}

func countFilled(slots []slot) int {
	n := 0
	for _, s := range slots {
		if s.grid != nil {
			n++
		}
	}
	return n
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
