package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileAccessLevel is the file access policy granted to an agent.
type FileAccessLevel string

const (
	// FileAccessNone forbids all file access.
	FileAccessNone FileAccessLevel = "none"
	// FileAccessReadOnly allows reads but no writes.
	FileAccessReadOnly FileAccessLevel = "read_only"
	// FileAccessReadWrite allows reads and pattern-filtered writes.
	FileAccessReadWrite FileAccessLevel = "read_write"
)

// FileAccess describes an agent's file access policy.
// Allow and Deny are glob patterns; they only apply to ReadWrite.
type FileAccess struct {
	Level FileAccessLevel `json:"level"`
	Allow []string        `json:"allow,omitempty"`
	Deny  []string        `json:"deny,omitempty"`
}

// Permissions defines the operations an agent may perform.
// Attached 1:1 to each agent; immutable after construction.
type Permissions struct {
	FileAccess     FileAccess `json:"fileAccess"`
	ShellExecution bool       `json:"shellExecution"`
	NetworkAccess  bool       `json:"networkAccess"`
	AllowedTools   []string   `json:"allowedTools,omitempty"`
	MaxIterations  uint       `json:"maxIterations"`
	CanDelegate    bool       `json:"canDelegate"`
}

// DefaultPermissions returns the most restrictive permission set.
func DefaultPermissions() Permissions {
	return Permissions{
		FileAccess:    FileAccess{Level: FileAccessNone},
		MaxIterations: 5,
	}
}

// ReadOnlyPermissions returns read-only file access with no shell.
func ReadOnlyPermissions() Permissions {
	return Permissions{
		FileAccess:    FileAccess{Level: FileAccessReadOnly},
		MaxIterations: 5,
	}
}

// CanReadFile reports whether the agent may read the given path.
func (p Permissions) CanReadFile(path string) bool {
	switch p.FileAccess.Level {
	case FileAccessReadOnly:
		return true
	case FileAccessReadWrite:
		// Deny patterns block reads too; the allow list only
		// restricts writes.
		return !matchAny(p.FileAccess.Deny, path)
	default:
		return false
	}
}

// CanWriteFile reports whether the agent may write the given path.
// Requires ReadWrite access, at least one matching allow pattern, and
// no matching deny pattern. Deny is checked first.
func (p Permissions) CanWriteFile(path string) bool {
	if p.FileAccess.Level != FileAccessReadWrite {
		return false
	}
	if matchAny(p.FileAccess.Deny, path) {
		return false
	}
	return matchAny(p.FileAccess.Allow, path)
}

// ToolAllowed reports whether a tool (program) name is permitted.
// An empty AllowedTools list permits everything.
func (p Permissions) ToolAllowed(name string) bool {
	if len(p.AllowedTools) == 0 {
		return true
	}
	for _, pattern := range p.AllowedTools {
		if matchWildcard(pattern, name) {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matchWildcard(pattern, path) {
			return true
		}
	}
	return false
}

// matchWildcard checks if a string matches a wildcard pattern.
// For simple patterns (* at start/end), uses string matching.
// For complex patterns (containing **), uses doublestar.
func matchWildcard(pattern, s string) bool {
	// Global wildcard matches everything
	if pattern == "*" || pattern == "**" {
		return true
	}

	// For patterns with **, use doublestar
	if strings.Contains(pattern, "**") {
		matched, _ := doublestar.Match(pattern, s)
		return matched
	}

	// Simple suffix wildcard (prefix*)
	if strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}

	// Simple prefix wildcard (*suffix)
	if strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*") {
		return strings.HasSuffix(s, strings.TrimPrefix(pattern, "*"))
	}

	// For patterns with * in the middle or multiple *, use doublestar
	if strings.Contains(pattern, "*") {
		matched, _ := doublestar.Match(pattern, s)
		return matched
	}

	// Exact match
	return pattern == s
}

// DeniedError is returned when a toolkit operation violates the
// agent's permissions.
type DeniedError struct {
	Agent     string
	Operation string
	Target    string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission denied: cannot %s %s", e.Operation, e.Target)
}

// IsDenied checks if an error is a permission denial.
func IsDenied(err error) bool {
	var denied *DeniedError
	return errors.As(err, &denied)
}
