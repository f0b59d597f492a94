package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcmind/prism/internal/config"
	"github.com/arcmind/prism/internal/core/arc"
	"github.com/arcmind/prism/internal/core/validation"
)

func testTask() *arc.Task {
	return &arc.Task{
		ID: "test-task",
		Train: []arc.GridPair{
			{Input: validation.Grid{{0, 1}}, Output: validation.Grid{{1, 0}}},
		},
		Test: []arc.GridPair{
			{Input: validation.Grid{{1, 1}}, Output: validation.Grid{{1, 1}}},
		},
	}
}

func newTestSolver(response string) (*Solver, *MockLLMClient) {
	mock := &MockLLMClient{Response: response}
	return NewSolver(mock, "test-model", config.Default().Prompts), mock
}

func TestSolve_CorrectStructuredResponse(t *testing.T) {
	s, mock := newTestSolver(`{
		"patternDescription": "identity",
		"solvingStrategy": "copy the input",
		"predictedOutput": [[1,1]],
		"confidence": 90
	}`)

	exp, err := s.Solve(context.Background(), testTask(), "solver")
	require.NoError(t, err)

	assert.Equal(t, "test-task", exp.PuzzleID)
	assert.Equal(t, "test-model", exp.ModelName)
	assert.Equal(t, "identity", exp.PatternDescription)
	assert.True(t, exp.IsCorrect)
	assert.Equal(t, "direct_field", exp.ExtractionMethod)
	assert.InDelta(t, 0.95, exp.TrustworthinessScore, 1e-9)
	assert.Equal(t, 90, exp.Confidence)
	assert.True(t, exp.HasConfidence)
	assert.NotEmpty(t, exp.UUID)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "[[1,1]]")
}

func TestSolve_ProseOnlyResponse(t *testing.T) {
	// No parsable JSON at all; the raw text still feeds the text fallback.
	s, _ := newTestSolver("After much thought, the answer: [[1,1]] is my prediction.")

	exp, err := s.Solve(context.Background(), testTask(), "solver")
	require.NoError(t, err)

	assert.True(t, exp.IsCorrect)
	assert.Equal(t, "text_keyword", exp.ExtractionMethod)
}

func TestSolve_WrongAnswerLowConfidence(t *testing.T) {
	s, _ := newTestSolver(`{"predictedOutput": [[0,0]], "confidence": 10}`)

	exp, err := s.Solve(context.Background(), testTask(), "solver")
	require.NoError(t, err)

	assert.False(t, exp.IsCorrect)
	// Wrong at 10% confidence: 1 - 0.1
	assert.InDelta(t, 0.9, exp.TrustworthinessScore, 1e-9)
}

func TestSolve_MissingConfidenceGetsDefault(t *testing.T) {
	s, _ := newTestSolver(`{"predictedOutput": [[1,1]]}`)

	exp, err := s.Solve(context.Background(), testTask(), "solver")
	require.NoError(t, err)

	assert.Equal(t, defaultConfidence, exp.Confidence)
	assert.True(t, exp.HasConfidence)
}

func TestSolve_ZeroConfidencePreserved(t *testing.T) {
	s, _ := newTestSolver(`{"predictedOutput": [[0,0]], "confidence": 0}`)

	exp, err := s.Solve(context.Background(), testTask(), "solver")
	require.NoError(t, err)

	assert.Equal(t, 0, exp.Confidence)
	assert.True(t, exp.HasConfidence)
	// Honest zero confidence on a wrong answer is perfectly calibrated.
	assert.Equal(t, 1.0, exp.TrustworthinessScore)
}

func TestSolve_NonSolverPrompt(t *testing.T) {
	s, mock := newTestSolver(`{
		"patternDescription": "rows flip",
		"solvingStrategy": "look at the mirror line"
	}`)

	exp, err := s.Solve(context.Background(), testTask(), "educational")
	require.NoError(t, err)

	assert.True(t, exp.IsCorrect)
	assert.Equal(t, 1.0, exp.TrustworthinessScore)
	assert.Equal(t, "not_solver_mode", exp.ExtractionMethod)
	assert.Contains(t, mock.Prompts[0], "Do not produce an answer grid")
}

func TestSolve_MultiTestPrompt(t *testing.T) {
	task := testTask()
	task.Test = append(task.Test, arc.GridPair{
		Input:  validation.Grid{{2, 2}},
		Output: validation.Grid{{2, 2}},
	})

	s, mock := newTestSolver(`{
		"predictedOutput1": [[1,1]],
		"predictedOutput2": [[2,2]],
		"confidence": 80
	}`)

	exp, err := s.Solve(context.Background(), task, "solver")
	require.NoError(t, err)

	assert.True(t, exp.IsCorrect)
	assert.Len(t, exp.PredictedGrids, 2)
	assert.Contains(t, mock.Prompts[0], "2 test cases")
}

func TestSolveStream_MatchesNonStreamedGrading(t *testing.T) {
	raw := `{"predictedOutput": [[1,1]], "confidence": 90}`
	s, _ := newTestSolver(raw)

	var chunks []string
	exp, err := s.SolveStream(context.Background(), testTask(), "solver", func(c string) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, raw, chunks[0])

	assert.True(t, exp.IsCorrect)
	assert.Equal(t, "direct_field", exp.ExtractionMethod)
	assert.InDelta(t, 0.95, exp.TrustworthinessScore, 1e-9)
}

func TestSolveStream_ProseFallsBackToText(t *testing.T) {
	s, _ := newTestSolver("No JSON today. Final output: [[1,1]] as discussed above.")

	exp, err := s.SolveStream(context.Background(), testTask(), "solver", nil)
	require.NoError(t, err)

	assert.True(t, exp.IsCorrect)
	assert.Equal(t, "text_keyword", exp.ExtractionMethod)
}

func TestSolve_ProviderError(t *testing.T) {
	mock := &MockLLMClient{Err: errors.New("rate limited")}
	s := NewSolver(mock, "test-model", config.Default().Prompts)

	_, err := s.Solve(context.Background(), testTask(), "solver")
	assert.Error(t, err)
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse("Here you go:\n```json\n{\"confidence\": 42}\n```")
	require.NoError(t, err)
	assert.Equal(t, float64(42), resp["confidence"])

	_, err = DecodeResponse("no json here")
	assert.Error(t, err)
}
