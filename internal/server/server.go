package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/arcmind/prism/internal/config"
	"github.com/arcmind/prism/internal/core/arc"
	"github.com/arcmind/prism/internal/core/solver"
	"github.com/arcmind/prism/internal/core/validation"
	"github.com/arcmind/prism/internal/llm"
	"github.com/arcmind/prism/internal/store"
)

type Server struct {
	Config *config.Config
	Solver *solver.Solver
	Store  store.ExplanationStore
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults with env overrides", cfgPath, err)
		cfg = config.Default()
	}

	// Override config with env vars if present (simple override logic)
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if envDBPath := os.Getenv("DATABASE_PATH"); envDBPath != "" {
		cfg.Database.Path = envDBPath
	}
	if envTasksDir := os.Getenv("TASKS_DIR"); envTasksDir != "" {
		cfg.Data.TasksDir = envTasksDir
	}

	// Default to Ollama if provider is empty
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open explanation store: %v", err)
	}

	return &Server{
		Config: cfg,
		Solver: solver.NewSolver(llmClient, cfg.LLM.Model, cfg.Prompts),
		Store:  st,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/validate", s.Validate)
	r.POST("/validate/multi", s.ValidateMulti)
	r.POST("/puzzles/:id/analyze", s.Analyze)
	r.GET("/puzzles/:id/analyze/stream", s.AnalyzeStream)
	r.GET("/puzzles/:id/explanations", s.ListExplanations)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ValidateRequest struct {
	Response       map[string]any  `json:"response"`
	ExpectedOutput validation.Grid `json:"expectedOutput"`
	PromptID       string          `json:"promptId"`
	Confidence     *int            `json:"confidence"`
}

func (s *Server) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Response == nil || len(req.ExpectedOutput) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response and expectedOutput are required"})
		return
	}

	result := validation.ValidateSingle(req.Response, req.ExpectedOutput, promptOrDefault(req.PromptID), confidenceFrom(req.Confidence))
	c.JSON(http.StatusOK, result)
}

type ValidateMultiRequest struct {
	Response        map[string]any    `json:"response"`
	ExpectedOutputs []validation.Grid `json:"expectedOutputs"`
	PromptID        string            `json:"promptId"`
	Confidence      *int              `json:"confidence"`
}

func (s *Server) ValidateMulti(c *gin.Context) {
	var req ValidateMultiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Response == nil || len(req.ExpectedOutputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response and expectedOutputs are required"})
		return
	}
	for _, g := range req.ExpectedOutputs {
		if len(g) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expectedOutputs must not contain empty grids"})
			return
		}
	}

	result := validation.ValidateMulti(req.Response, req.ExpectedOutputs, promptOrDefault(req.PromptID), confidenceFrom(req.Confidence))
	c.JSON(http.StatusOK, result)
}

type AnalyzeRequest struct {
	PromptID string `json:"promptId"`
}

func (s *Server) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	task, ok := s.loadTask(c)
	if !ok {
		return
	}

	exp, err := s.Solver.Solve(c.Request.Context(), task, promptOrDefault(req.PromptID))
	if err != nil {
		log.Printf("Failed to analyze puzzle %s: %v", task.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze puzzle"})
		return
	}

	if err := s.Store.Save(c.Request.Context(), exp); err != nil {
		log.Printf("Failed to save explanation for puzzle %s: %v", task.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save explanation"})
		return
	}

	c.JSON(http.StatusOK, exp)
}

// AnalyzeStream relays the completion over SSE as it arrives, then emits a
// final "result" event graded through the same revalidation path a
// non-streamed request takes.
func (s *Server) AnalyzeStream(c *gin.Context) {
	task, ok := s.loadTask(c)
	if !ok {
		return
	}
	promptID := promptOrDefault(c.Query("promptId"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	exp, err := s.Solver.SolveStream(c.Request.Context(), task, promptID, func(chunk string) {
		c.SSEvent("chunk", chunk)
		c.Writer.Flush()
	})
	if err != nil {
		log.Printf("Failed to analyze puzzle %s: %v", task.ID, err)
		c.SSEvent("error", gin.H{"error": "Failed to analyze puzzle"})
		c.Writer.Flush()
		return
	}

	if err := s.Store.Save(c.Request.Context(), exp); err != nil {
		log.Printf("Failed to save explanation for puzzle %s: %v", task.ID, err)
	}

	c.SSEvent("result", exp)
	c.Writer.Flush()
}

func (s *Server) ListExplanations(c *gin.Context) {
	puzzleID := c.Param("id")

	exps, err := s.Store.ListByPuzzle(c.Request.Context(), puzzleID)
	if err != nil {
		log.Printf("Failed to list explanations for puzzle %s: %v", puzzleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list explanations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"explanations": exps})
}

func (s *Server) loadTask(c *gin.Context) (*arc.Task, bool) {
	puzzleID := c.Param("id")

	task, err := arc.LoadTask(filepath.Join(s.Config.Data.TasksDir, puzzleID+".json"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
		return nil, false
	}
	return task, true
}

func promptOrDefault(promptID string) string {
	if promptID == "" {
		return "solver"
	}
	return promptID
}

func confidenceFrom(p *int) validation.Confidence {
	if p == nil {
		return validation.NoConfidence()
	}
	return validation.ConfidenceOf(*p)
}
