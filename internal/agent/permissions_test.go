package agent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPermissions(t *testing.T) {
	p := DefaultPermissions()

	assert.Equal(t, FileAccessNone, p.FileAccess.Level)
	assert.False(t, p.ShellExecution)
	assert.False(t, p.NetworkAccess)
	assert.Equal(t, uint(5), p.MaxIterations)
	assert.False(t, p.CanDelegate)
}

func TestCanReadFile(t *testing.T) {
	tests := []struct {
		name     string
		perms    Permissions
		path     string
		expected bool
	}{
		{
			"none denies reads",
			Permissions{FileAccess: FileAccess{Level: FileAccessNone}},
			"main.go", false,
		},
		{
			"read only allows reads",
			ReadOnlyPermissions(),
			"main.go", true,
		},
		{
			"read write allows reads",
			Permissions{FileAccess: FileAccess{Level: FileAccessReadWrite}},
			"main.go", true,
		},
		{
			"deny pattern blocks reads under read write",
			Permissions{FileAccess: FileAccess{
				Level: FileAccessReadWrite,
				Deny:  []string{"secrets/**"},
			}},
			"secrets/api.key", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.perms.CanReadFile(tt.path))
		})
	}
}

func TestCanWriteFile(t *testing.T) {
	rw := Permissions{FileAccess: FileAccess{
		Level: FileAccessReadWrite,
		Allow: []string{"src/**", "*.md"},
		Deny:  []string{"src/generated/**"},
	}}

	tests := []struct {
		name     string
		perms    Permissions
		path     string
		expected bool
	}{
		{"none denies writes", DefaultPermissions(), "main.go", false},
		{"read only denies writes", ReadOnlyPermissions(), "main.go", false},
		{"allowed path", rw, "src/main.go", true},
		{"allowed suffix pattern", rw, "README.md", true},
		{"not in allow list", rw, "vendor/dep.go", false},
		{"deny wins over allow", rw, "src/generated/api.go", false},
		{
			"read write with no allow list denies everything",
			Permissions{FileAccess: FileAccess{Level: FileAccessReadWrite}},
			"main.go", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.perms.CanWriteFile(tt.path))
		})
	}
}

func TestToolAllowed(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		tool     string
		expected bool
	}{
		{"empty list permits all", nil, "rm", true},
		{"exact match", []string{"git", "go"}, "git", true},
		{"not listed", []string{"git", "go"}, "rm", false},
		{"prefix wildcard", []string{"go*"}, "gofmt", true},
		{"global wildcard", []string{"*"}, "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Permissions{AllowedTools: tt.allowed}
			assert.Equal(t, tt.expected, p.ToolAllowed(tt.tool))
		})
	}
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		pattern  string
		input    string
		expected bool
	}{
		{"*", "anything", true},
		{"**", "a/b/c", true},
		{"src/**", "src/a/b.go", true},
		{"src/**", "lib/a.go", false},
		{"*.md", "README.md", true},
		{"*.md", "README.txt", false},
		{"test*", "testdata", true},
		{"test*", "mytest", false},
		{"exact.go", "exact.go", true},
		{"exact.go", "other.go", false},
		{"a*c", "abc", true},
		{"a*c", "abd", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.pattern, tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, matchWildcard(tt.pattern, tt.input))
		})
	}
}

func TestDeniedError(t *testing.T) {
	err := &DeniedError{Agent: "scanner", Operation: "write", Target: "main.go"}
	assert.Equal(t, "permission denied: cannot write main.go", err.Error())

	assert.True(t, IsDenied(err))
	assert.True(t, IsDenied(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsDenied(errors.New("other")))
	assert.False(t, IsDenied(nil))
}
