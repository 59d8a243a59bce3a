// Package vcs provides version control system integration.
package vcs

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Diff returns whether workDir is inside a git repository and, if so,
// the working tree diff. A failing git invocation is treated as
// "not a repository".
func Diff(ctx context.Context, workDir string) (bool, string) {
	if !IsRepo(ctx, workDir) {
		return false, ""
	}

	cmd := exec.CommandContext(ctx, "git", "diff", "HEAD")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		log.Debug().Err(err).Str("workDir", workDir).Msg("git diff failed")
		return true, ""
	}
	return true, string(out)
}

// IsRepo reports whether workDir is inside a git work tree.
func IsRepo(ctx context.Context, workDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// Branch returns the current branch name, or "" outside a repository.
func Branch(ctx context.Context, workDir string) string {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ChangedFiles returns the paths with uncommitted changes relative to
// the repository root.
func ChangedFiles(ctx context.Context, workDir string) []string {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", "HEAD")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}
