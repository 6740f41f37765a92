package model

import (
	"time"
)

// RunStatus represents the current state of a research run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusFetching   RunStatus = "fetching"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusEnriching  RunStatus = "enriching"
	RunStatusScoring    RunStatus = "scoring"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Lead is a prospective customer company, optionally researched and scored.
type Lead struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Website string          `json:"website"`
	Profile *CompanyProfile `json:"profile,omitempty"`
	Score   *ScoreBreakdown `json:"score,omitempty"`
}

// Run represents a single research run for a company website.
type Run struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Status    RunStatus       `json:"status"`
	Result    *ResearchResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name       string         `json:"name"`
	Status     PhaseStatus    `json:"status"`
	Duration   int64          `json:"duration_ms"`
	TokenUsage TokenUsage     `json:"token_usage"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TokenUsage tracks completion-service token consumption for a phase.
type TokenUsage struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Add accumulates other into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Cost += other.Cost
}

// ResearchResult is the final output of one research request.
type ResearchResult struct {
	RunID       string         `json:"run_id,omitempty"`
	URL         string         `json:"url"`
	Profile     CompanyProfile `json:"profile"`
	Score       ScoreBreakdown `json:"score"`
	Phases      []PhaseResult  `json:"phases"`
	TokenUsage  TokenUsage     `json:"token_usage"`
	CompletedAt time.Time      `json:"completed_at"`
}
