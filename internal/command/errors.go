package command

import (
	"errors"
	"fmt"
)

// Sentinel parse errors.
var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrMissingSlash   = errors.New("command must start with '/'")
	ErrUnclosedQuotes = errors.New("unclosed quotes in command")
	ErrTrailingEscape = errors.New("trailing escape character")
)

// ErrNoSuitableAgent is returned when no registered agent scores above
// the router's activation threshold for a task.
var ErrNoSuitableAgent = errors.New("no suitable agent found for task")

// ErrNoClosingDelimiter is returned when a command file's frontmatter
// block is never closed.
var ErrNoClosingDelimiter = errors.New("no closing frontmatter delimiter")

// InvalidNameError reports a command name outside the allowed charset.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid command name %q: only letters, digits, '-' and '_' are allowed", e.Name)
}

// UnknownArgumentError reports a named argument the command does not declare.
type UnknownArgumentError struct {
	Argument string
	Command  string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unknown argument '%s' for command '%s'", e.Argument, e.Command)
}

// MissingArgumentError reports a required argument with no value.
type MissingArgumentError struct {
	Argument string
	Command  string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("required argument '%s' missing for command '%s'", e.Argument, e.Command)
}

// NotFoundError reports a lookup for a command that is not registered.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("command not found: /%s (did you mean /%s?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("command not found: /%s", e.Name)
}

// AgentNotFoundError reports an explicitly configured agent ID that is
// not registered with the router.
type AgentNotFoundError struct {
	ID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent not found: %s", e.ID)
}

// TemplateError wraps a template parse or render failure.
type TemplateError struct {
	Command string
	Err     error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template expansion failed for command '%s': %v", e.Command, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
