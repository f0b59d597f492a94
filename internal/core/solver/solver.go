package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arcmind/prism/internal/config"
	"github.com/arcmind/prism/internal/core/arc"
	"github.com/arcmind/prism/internal/core/model"
	"github.com/arcmind/prism/internal/core/validation"
	"github.com/arcmind/prism/internal/llm"
)

// Confidence applied when a provider omits the field entirely. A reported 0
// is a deliberate assertion and is kept as-is.
const defaultConfidence = 50

type Solver struct {
	LLM       llm.Client
	ModelName string
	Prompts   config.SolverPrompts
}

func NewSolver(llmClient llm.Client, modelName string, prompts config.SolverPrompts) *Solver {
	return &Solver{
		LLM:       llmClient,
		ModelName: modelName,
		Prompts:   prompts,
	}
}

// Solve asks the model to work a puzzle under the given prompt mode, grades
// whatever came back, and assembles the explanation record. Malformed model
// output is not an error: it degrades to an incorrect, low-trust record.
func (s *Solver) Solve(ctx context.Context, task *arc.Task, promptID string) (*model.Explanation, error) {
	prompt := s.buildPrompt(task, promptID)

	raw, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion for task %s: %w", task.ID, err)
	}

	resp, err := DecodeResponse(raw)
	if err != nil {
		// No parsable object; hand the raw text to the engine's text
		// fallback instead of failing the attempt.
		resp = map[string]any{}
	}
	if _, ok := resp["providerRawResponse"]; !ok {
		resp["providerRawResponse"] = raw
	}

	result := validation.ValidateMulti(resp, task.ExpectedOutputs(), promptID, responseConfidence(resp))

	return s.buildExplanation(task, promptID, resp, result), nil
}

// SolveStream runs a puzzle for a streaming handler: the raw completion is
// surfaced through onChunk before grading, and grading goes through the
// stream revalidation path so the final event matches what a non-streamed
// request would have produced.
func (s *Solver) SolveStream(ctx context.Context, task *arc.Task, promptID string, onChunk func(string)) (*model.Explanation, error) {
	prompt := s.buildPrompt(task, promptID)

	raw, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion for task %s: %w", task.ID, err)
	}
	if onChunk != nil {
		onChunk(raw)
	}

	sr := validation.StreamedResult{Text: raw}
	resp, derr := DecodeResponse(raw)
	if derr == nil {
		if _, ok := resp["providerRawResponse"]; !ok {
			resp["providerRawResponse"] = raw
		}
		sr.Response = resp
	} else {
		resp = map[string]any{"providerRawResponse": raw}
	}

	result := validation.RevalidateStreamMulti(sr, task.ExpectedOutputs(), promptID, responseConfidence(resp))

	return s.buildExplanation(task, promptID, resp, result), nil
}

func (s *Solver) buildExplanation(task *arc.Task, promptID string, resp map[string]any, result validation.MultiValidationResult) *model.Explanation {
	conf := responseConfidence(resp)

	grids := make([]validation.Grid, len(result.Results))
	for i, r := range result.Results {
		grids[i] = r.PredictedGrid
	}

	return &model.Explanation{
		UUID:                 uuid.New().String(),
		PuzzleID:             task.ID,
		PromptID:             promptID,
		ModelName:            s.ModelName,
		PatternDescription:   stringField(resp, "patternDescription"),
		SolvingStrategy:      stringField(resp, "solvingStrategy"),
		PredictedGrids:       grids,
		IsCorrect:            result.AllCorrect,
		TrustworthinessScore: result.AverageScore,
		ExtractionMethod:     result.ExtractionMethodSummary,
		Confidence:           conf.Value,
		HasConfidence:        conf.Provided,
		CreatedAt:            time.Now().UTC(),
	}
}

func (s *Solver) buildPrompt(task *arc.Task, promptID string) string {
	train := serializePairs(task.Train)

	if !validation.IsSolverPrompt(promptID) {
		return fmt.Sprintf(s.Prompts.Explanation, train, serializeGrid(task.Test[0].Input))
	}

	if len(task.Test) > 1 {
		inputs := make([]string, len(task.Test))
		for i, pair := range task.Test {
			inputs[i] = fmt.Sprintf("Test %d: %s", i+1, serializeGrid(pair.Input))
		}
		return fmt.Sprintf(s.Prompts.Multi, len(task.Test), train, strings.Join(inputs, "\n"))
	}

	return fmt.Sprintf(s.Prompts.Single, train, serializeGrid(task.Test[0].Input))
}

// responseConfidence reads the model-reported confidence. An absent or
// unreadable field falls back to the default; a reported 0 engages calibrated
// scoring unchanged.
func responseConfidence(resp map[string]any) validation.Confidence {
	v, ok := resp["confidence"]
	if !ok {
		return validation.ConfidenceOf(defaultConfidence)
	}
	switch n := v.(type) {
	case float64:
		return validation.ConfidenceOf(int(n))
	case int:
		return validation.ConfidenceOf(n)
	default:
		return validation.ConfidenceOf(defaultConfidence)
	}
}

func stringField(resp map[string]any, field string) string {
	s, _ := resp[field].(string)
	return s
}

func serializePairs(pairs []arc.GridPair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("Input: %s\nOutput: %s", serializeGrid(p.Input), serializeGrid(p.Output))
	}
	return strings.Join(parts, "\n\n")
}

func serializeGrid(g validation.Grid) string {
	data, err := json.Marshal(g)
	if err != nil {
		return "[]"
	}
	return string(data)
}
