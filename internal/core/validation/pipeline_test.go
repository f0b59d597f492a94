package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSingle_DirectFieldRoundTrip(t *testing.T) {
	resp := decode(t, `{"predictedOutput": [[1,2],[3,4]], "confidence": 85}`)
	expected := Grid{{1, 2}, {3, 4}}

	result := ValidateSingle(resp, expected, "solver", ConfidenceOf(85))

	assert.Equal(t, expected, result.PredictedGrid)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "direct_field", result.ExtractionMethod)
	assert.InDelta(t, 0.925, result.TrustworthinessScore, 1e-9)
}

func TestValidateSingle_TextFallback(t *testing.T) {
	resp := decode(t, `{
		"solvingStrategy": "Mirror the rows. Predicted Output Grid: [[0,1],[1,0]] done.",
		"patternDescription": "horizontal mirror"
	}`)
	expected := Grid{{0, 1}, {1, 0}}

	result := ValidateSingle(resp, expected, "solver", ConfidenceOf(60))

	assert.Equal(t, expected, result.PredictedGrid)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "text_keyword", result.ExtractionMethod)
}

func TestValidateSingle_TextSourceOrder(t *testing.T) {
	// solvingStrategy is probed before the raw provider text.
	resp := decode(t, `{
		"solvingStrategy": "answer: [[1]]",
		"providerRawResponse": "answer: [[2]]"
	}`)

	result := ValidateSingle(resp, Grid{{1}}, "solver", NoConfidence())
	assert.True(t, result.IsCorrect)
	assert.Equal(t, Grid{{1}}, result.PredictedGrid)
}

func TestValidateSingle_WrongDimensions(t *testing.T) {
	resp := decode(t, `{"predictedOutput": [[1,2,3]]}`)
	expected := Grid{{1, 2}, {3, 4}}

	result := ValidateSingle(resp, expected, "solver", ConfidenceOf(90))

	assert.False(t, result.IsCorrect)
	assert.Equal(t, "direct_field_wrong_dimensions", result.ExtractionMethod)
	assert.InDelta(t, 0.1, result.TrustworthinessScore, 1e-9)
}

func TestValidateSingle_AllMethodsFailed(t *testing.T) {
	resp := decode(t, `{"solvingStrategy": "I could not determine the pattern."}`)

	result := ValidateSingle(resp, Grid{{1}}, "solver", ConfidenceOf(0))

	assert.Nil(t, result.PredictedGrid)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, "all_methods_failed", result.ExtractionMethod)
	// Wrong with asserted zero confidence is perfectly calibrated.
	assert.Equal(t, 1.0, result.TrustworthinessScore)
}

func TestValidateSingle_NonSolverPrompt(t *testing.T) {
	resp := decode(t, `{"predictedOutput": [[9,9]]}`)

	result := ValidateSingle(resp, Grid{{1}}, "educational", ConfidenceOf(10))

	assert.Nil(t, result.PredictedGrid)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1.0, result.TrustworthinessScore)
	assert.Equal(t, "not_solver_mode", result.ExtractionMethod)
}

func TestValidateSingle_NilExpectedPanics(t *testing.T) {
	assert.Panics(t, func() {
		ValidateSingle(map[string]any{}, nil, "solver", NoConfidence())
	})
}

func TestValidateMulti_AllSlotsRecovered(t *testing.T) {
	resp := decode(t, `{
		"predictedOutput1": [[1]],
		"predictedOutput2": [[2]]
	}`)
	expected := []Grid{{{1}}, {{2}}}

	result := ValidateMulti(resp, expected, "solver", ConfidenceOf(70))

	assert.True(t, result.AllCorrect)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, "numbered_fields", result.ExtractionMethodSummary)
	assert.InDelta(t, 0.85, result.AverageScore, 1e-9)
}

func TestValidateMulti_PartialRecovery(t *testing.T) {
	// Only predictedOutput2 of three is present.
	resp := decode(t, `{"predictedOutput2": [[5,5]]}`)
	expected := []Grid{{{1}}, {{5, 5}}, {{3}}}

	result := ValidateMulti(resp, expected, "solver", ConfidenceOf(50))

	assert.Len(t, result.Results, 3)

	assert.Nil(t, result.Results[0].PredictedGrid)
	assert.False(t, result.Results[0].IsCorrect)
	assert.Equal(t, "not_found", result.Results[0].ExtractionMethod)

	assert.Equal(t, Grid{{5, 5}}, result.Results[1].PredictedGrid)
	assert.True(t, result.Results[1].IsCorrect)

	assert.Nil(t, result.Results[2].PredictedGrid)
	assert.False(t, result.Results[2].IsCorrect)

	assert.False(t, result.AllCorrect)
	assert.Equal(t, "numbered_fields_partial", result.ExtractionMethodSummary)
}

func TestValidateMulti_TextFallbackMultipleGrids(t *testing.T) {
	resp := decode(t, `{
		"solvingStrategy": "Test 1:\n` + "```" + `\n[[1]]\n` + "```" + `\nTest 2:\n` + "```" + `\n[[2]]\n` + "```" + `"
	}`)
	expected := []Grid{{{1}}, {{2}}}

	result := ValidateMulti(resp, expected, "solver", NoConfidence())

	assert.True(t, result.AllCorrect)
	assert.Equal(t, "text_code_block", result.ExtractionMethodSummary)
	assert.Equal(t, 1.0, result.AverageScore)
}

func TestValidateMulti_NothingRecovered(t *testing.T) {
	resp := decode(t, `{"solvingStrategy": "no grids, sorry"}`)
	expected := []Grid{{{1}}, {{2}}}

	result := ValidateMulti(resp, expected, "solver", NoConfidence())

	assert.False(t, result.AllCorrect)
	assert.Equal(t, 0.0, result.AverageScore)
	assert.Equal(t, "all_methods_failed", result.ExtractionMethodSummary)
	for _, r := range result.Results {
		assert.Nil(t, r.PredictedGrid)
		assert.Equal(t, "not_found", r.ExtractionMethod)
	}
}

func TestValidateMulti_IndexJoinNoPermutation(t *testing.T) {
	// Grids are graded against the expected grid at the same index, so
	// swapped predictions are wrong even though the sets match.
	resp := decode(t, `{"multiplePredictedOutputs": [[[2]],[[1]]]}`)
	expected := []Grid{{{1}}, {{2}}}

	result := ValidateMulti(resp, expected, "solver", NoConfidence())

	assert.False(t, result.AllCorrect)
	assert.False(t, result.Results[0].IsCorrect)
	assert.False(t, result.Results[1].IsCorrect)
}

func TestValidateMulti_NonSolverPrompt(t *testing.T) {
	result := ValidateMulti(map[string]any{}, []Grid{{{1}}, {{2}}}, "alienCommunication", NoConfidence())

	assert.True(t, result.AllCorrect)
	assert.Equal(t, 1.0, result.AverageScore)
	assert.Equal(t, "not_solver_mode", result.ExtractionMethodSummary)
	assert.Len(t, result.Results, 2)
}

func TestValidateMulti_EmptyExpectedPanics(t *testing.T) {
	assert.Panics(t, func() {
		ValidateMulti(map[string]any{}, nil, "solver", NoConfidence())
	})
}

func TestValidateMulti_MixedDimensionMismatch(t *testing.T) {
	resp := decode(t, `{
		"predictedOutput1": [[1]],
		"predictedOutput2": [[2,2,2]]
	}`)
	expected := []Grid{{{1}}, {{2, 2}}}

	result := ValidateMulti(resp, expected, "solver", ConfidenceOf(40))

	assert.True(t, result.Results[0].IsCorrect)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, "numbered_fields_wrong_dimensions", result.Results[1].ExtractionMethod)
	assert.False(t, result.AllCorrect)
}

func TestIsSolverPrompt(t *testing.T) {
	assert.True(t, IsSolverPrompt("solver"))
	assert.True(t, IsSolverPrompt("custom"))
	assert.True(t, IsSolverPrompt(""))
	assert.False(t, IsSolverPrompt("educational"))
	assert.False(t, IsSolverPrompt("educationalApproach"))
	assert.False(t, IsSolverPrompt("alienCommunication"))
	assert.False(t, IsSolverPrompt("gepa"))
}
