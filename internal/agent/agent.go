package agent

import (
	"context"
	"math"
)

// ExecutionMode controls how an agent interacts with the user.
type ExecutionMode string

const (
	// ModeInteractive allows user feedback during execution.
	ModeInteractive ExecutionMode = "interactive"
	// ModeAutomated runs without user interaction.
	ModeAutomated ExecutionMode = "automated"
)

// GitContext carries repository state relevant to a task.
type GitContext struct {
	Diff         string   `json:"diff"`
	Branch       string   `json:"branch"`
	ChangedFiles []string `json:"changedFiles"`
}

// TaskContext describes the task an agent is asked to score or execute.
// Built fresh per invocation, never persisted.
type TaskContext struct {
	FilePaths    []string          `json:"filePaths"`
	FileContents map[string]string `json:"fileContents,omitempty"`
	Git          *GitContext       `json:"git,omitempty"`
	Mode         ExecutionMode     `json:"mode"`
	UserIntent   string            `json:"userIntent"`
}

// Task is the unit of work handed to an agent.
type Task struct {
	Context                TaskContext `json:"context"`
	AdditionalInstructions string      `json:"additionalInstructions,omitempty"`
}

// ClampScore normalizes an activation score into [0, 1].
// NaN is treated as 0 rather than poisoning comparisons downstream.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(1, math.Max(0, score))
}

// Agent is the contract every routed agent implements.
type Agent interface {
	// ID returns the unique agent identifier.
	ID() string

	// Name returns the human-readable agent name.
	Name() string

	// Description returns a description of the agent's expertise.
	Description() string

	// CanHandle analyzes context and returns an activation score in [0, 1].
	// Higher scores indicate better suitability for the task.
	CanHandle(taskCtx *TaskContext) float64

	// Execute runs a task with the provided toolkit.
	Execute(ctx context.Context, task Task, toolkit *Toolkit) (*Result, error)

	// Permissions returns the agent's permission requirements.
	Permissions() Permissions

	// SystemPrompt returns the system prompt defining the agent persona.
	SystemPrompt() string
}

// ResultKind discriminates the agent result variants.
type ResultKind string

const (
	ResultAnalysis    ResultKind = "analysis"
	ResultCodeReview  ResultKind = "code_review"
	ResultSuggestions ResultKind = "suggestions"
)

// Severity level for code review findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single code review finding.
type Finding struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
	Line     int      `json:"line,omitempty"` // 0 means unknown
}

// Suggestion is an improvement proposal.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CodeChange  string `json:"codeChange,omitempty"`
}

// Result is the structured outcome of an agent execution.
// Kind selects which of the variant fields is populated.
type Result struct {
	Kind     ResultKind        `json:"kind"`
	Summary  string            `json:"summary,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
	Findings []Finding         `json:"findings,omitempty"`
	Items    []Suggestion      `json:"items,omitempty"`
}

// NewAnalysis builds an analysis result.
func NewAnalysis(summary string, details map[string]string) *Result {
	return &Result{Kind: ResultAnalysis, Summary: summary, Details: details}
}

// NewCodeReview builds a code review result.
func NewCodeReview(findings []Finding) *Result {
	return &Result{Kind: ResultCodeReview, Findings: findings}
}

// NewSuggestions builds a suggestions result.
func NewSuggestions(items []Suggestion) *Result {
	return &Result{Kind: ResultSuggestions, Items: items}
}
