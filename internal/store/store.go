package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcmind/prism/internal/core/model"
	"github.com/arcmind/prism/internal/core/validation"
)

// ExplanationStore persists graded explanation records. The validation
// engine itself never touches storage; this is the caller-side collaborator
// that maps result fields onto durable records.
type ExplanationStore interface {
	Save(ctx context.Context, exp *model.Explanation) error
	ListByPuzzle(ctx context.Context, puzzleID string) ([]model.Explanation, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS explanations (
	uuid                  TEXT PRIMARY KEY,
	puzzle_id             TEXT NOT NULL,
	prompt_id             TEXT NOT NULL,
	model_name            TEXT NOT NULL,
	pattern_description   TEXT,
	solving_strategy      TEXT,
	predicted_grids       TEXT NOT NULL,
	is_correct            INTEGER NOT NULL,
	trustworthiness_score REAL NOT NULL,
	extraction_method     TEXT NOT NULL,
	confidence            INTEGER NOT NULL,
	has_confidence        INTEGER NOT NULL,
	created_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_explanations_puzzle ON explanations(puzzle_id);
`

// SQLiteStore is the embedded ExplanationStore implementation.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, exp *model.Explanation) error {
	grids, err := json.Marshal(exp.PredictedGrids)
	if err != nil {
		return fmt.Errorf("failed to marshal predicted grids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO explanations (
			uuid, puzzle_id, prompt_id, model_name,
			pattern_description, solving_strategy, predicted_grids,
			is_correct, trustworthiness_score, extraction_method,
			confidence, has_confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.UUID, exp.PuzzleID, exp.PromptID, exp.ModelName,
		exp.PatternDescription, exp.SolvingStrategy, string(grids),
		boolToInt(exp.IsCorrect), exp.TrustworthinessScore, exp.ExtractionMethod,
		exp.Confidence, boolToInt(exp.HasConfidence), exp.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert explanation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListByPuzzle(ctx context.Context, puzzleID string) ([]model.Explanation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid, puzzle_id, prompt_id, model_name,
			pattern_description, solving_strategy, predicted_grids,
			is_correct, trustworthiness_score, extraction_method,
			confidence, has_confidence, created_at
		 FROM explanations WHERE puzzle_id = ? ORDER BY created_at DESC`,
		puzzleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query explanations: %w", err)
	}
	defer rows.Close()

	var exps []model.Explanation
	for rows.Next() {
		var exp model.Explanation
		var grids, createdAt string
		var isCorrect, hasConfidence int

		err := rows.Scan(
			&exp.UUID, &exp.PuzzleID, &exp.PromptID, &exp.ModelName,
			&exp.PatternDescription, &exp.SolvingStrategy, &grids,
			&isCorrect, &exp.TrustworthinessScore, &exp.ExtractionMethod,
			&exp.Confidence, &hasConfidence, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan explanation: %w", err)
		}

		var predicted []validation.Grid
		if err := json.Unmarshal([]byte(grids), &predicted); err != nil {
			return nil, fmt.Errorf("failed to unmarshal predicted grids: %w", err)
		}
		exp.PredictedGrids = predicted
		exp.IsCorrect = isCorrect != 0
		exp.HasConfidence = hasConfidence != 0
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			exp.CreatedAt = t
		}

		exps = append(exps, exp)
	}
	return exps, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
