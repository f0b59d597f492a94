package model

import (
	"time"

	"github.com/arcmind/prism/internal/core/validation"
)

// Explanation is one model attempt at a puzzle: the natural-language
// explanation plus the graded prediction. Validation fields are copied from
// the engine result and never recomputed after storage.
type Explanation struct {
	UUID                 string            `json:"uuid"`
	PuzzleID             string            `json:"puzzle_id"`
	PromptID             string            `json:"prompt_id"`
	ModelName            string            `json:"model_name"`
	PatternDescription   string            `json:"pattern_description,omitempty"`
	SolvingStrategy      string            `json:"solving_strategy,omitempty"`
	PredictedGrids       []validation.Grid `json:"predicted_grids"`
	IsCorrect            bool              `json:"is_correct"`
	TrustworthinessScore float64           `json:"trustworthiness_score"`
	ExtractionMethod     string            `json:"extraction_method"`
	Confidence           int               `json:"confidence"`
	HasConfidence        bool              `json:"has_confidence"`
	CreatedAt            time.Time         `json:"created_at"`
}
