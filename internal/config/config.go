package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type SolverPrompts struct {
	// Single is the solving prompt for one-test puzzles; Multi for puzzles
	// with several test cases. Both are fmt templates receiving the
	// serialized training pairs and test input(s).
	Single string `toml:"single"`
	Multi  string `toml:"multi"`
	// Explanation is the non-solving prompt used for explanation-only modes.
	Explanation string `toml:"explanation"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type DataConfig struct {
	TasksDir string `toml:"tasks_dir"`
}

type ConcurrencyConfig struct {
	BatchWorkers int `toml:"batch_workers"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Database    DatabaseConfig    `toml:"database"`
	Data        DataConfig        `toml:"data"`
	Prompts     SolverPrompts     `toml:"prompts"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration usable without a config file; the server
// bootstrap overlays env vars on top of it.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "prism.db"
	}
	if cfg.Data.TasksDir == "" {
		cfg.Data.TasksDir = "data/tasks"
	}
	if cfg.Concurrency.BatchWorkers <= 0 {
		cfg.Concurrency.BatchWorkers = 1
	}
	if cfg.Prompts.Single == "" {
		cfg.Prompts.Single = defaultSinglePrompt
	}
	if cfg.Prompts.Multi == "" {
		cfg.Prompts.Multi = defaultMultiPrompt
	}
	if cfg.Prompts.Explanation == "" {
		cfg.Prompts.Explanation = defaultExplanationPrompt
	}
}

const defaultSinglePrompt = `You are solving an ARC puzzle. Each training pair below shows an input grid transformed into an output grid. Infer the transformation and apply it to the test input.

Training pairs:
%s

Test input:
%s

Respond with a JSON object:
{
  "patternDescription": "what the transformation does",
  "solvingStrategy": "how you applied it",
  "predictedOutput": [[...]],
  "confidence": 0-100
}`

const defaultMultiPrompt = `You are solving an ARC puzzle with %d test cases. Each training pair below shows an input grid transformed into an output grid. Infer the transformation and apply it to every test input.

Training pairs:
%s

Test inputs:
%s

Respond with a JSON object:
{
  "patternDescription": "what the transformation does",
  "solvingStrategy": "how you applied it",
  "predictedOutput1": [[...]],
  "predictedOutput2": [[...]],
  "confidence": 0-100
}
Include one predictedOutputN field per test case, in order.`

const defaultExplanationPrompt = `Explain the transformation in this ARC puzzle for a student. Do not produce an answer grid.

Training pairs:
%s

Test input:
%s

Respond with a JSON object:
{
  "patternDescription": "what the transformation does",
  "solvingStrategy": "how a student could discover it"
}`
