package model

import "time"

// RunStatus represents the outcome of a reconciliation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusHalted    RunStatus = "halted" // stopped by the quality gate
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one pipeline execution. Reconciled rows are
// never persisted; only the summary outlives the run.
type Run struct {
	ID         string      `json:"id"`
	Status     RunStatus   `json:"status"`
	JoinKind   string      `json:"join_kind"`
	Summary    *RunSummary `json:"summary,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// StageCounts records the row count produced by each stage.
type StageCounts struct {
	Inventory   int `json:"inventory"`
	Web         int `json:"web"`
	WebProducts int `json:"web_products"`
	Links       int `json:"links"`
	LinksClean  int `json:"links_clean"`
	Reconciled  int `json:"reconciled"`
	Premium     int `json:"premium"`
	Unlinked    int `json:"unlinked"`
	Migratable  int `json:"migratable"`
}

// CheckOutcome is the serialized form of one hard quality check.
type CheckOutcome struct {
	Name     string  `json:"name"`
	Passed   bool    `json:"passed"`
	Computed float64 `json:"computed"`
	Expected float64 `json:"expected"`
	Delta    float64 `json:"delta"`
}

// Warning is the serialized form of one soft integrity finding.
type Warning struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Keys    []string `json:"keys,omitempty"`
	Message string   `json:"message"`
}

// RunSummary is the diagnostic record of a run: what went in, what came out,
// and every hard and soft finding.
type RunSummary struct {
	JoinKind     string         `json:"join_kind"`
	Counts       StageCounts    `json:"counts"`
	TotalRevenue float64        `json:"total_revenue"`
	Checks       []CheckOutcome `json:"checks"`
	Warnings     []Warning      `json:"warnings,omitempty"`
	Ready        bool           `json:"ready"`
	Error        string         `json:"error,omitempty"`
}
