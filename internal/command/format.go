package command

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tern-ai/tern/internal/agent"
)

// OutputFormat selects how agent results are rendered.
type OutputFormat string

const (
	// FormatMarkdown renders with rich formatting.
	FormatMarkdown OutputFormat = "markdown"
	// FormatJSON renders for programmatic consumption.
	FormatJSON OutputFormat = "json"
	// FormatPlainText renders without markup.
	FormatPlainText OutputFormat = "plain"
)

// FormatResult renders a structured agent result into the requested
// output format.
func FormatResult(result *agent.Result, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(result)
	case FormatPlainText:
		return formatPlain(result), nil
	default:
		return formatMarkdown(result), nil
	}
}

func formatMarkdown(result *agent.Result) string {
	var sb strings.Builder

	switch result.Kind {
	case agent.ResultCodeReview:
		sb.WriteString("# Code Review\n\n")
		if len(result.Findings) == 0 {
			sb.WriteString("No issues found.\n")
			break
		}
		fmt.Fprintf(&sb, "Found %d issue(s):\n\n", len(result.Findings))
		for _, severity := range []agent.Severity{agent.SeverityError, agent.SeverityWarning, agent.SeverityInfo} {
			group := filterFindings(result.Findings, severity)
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "## %s (%d)\n\n", severityHeading(severity), len(group))
			for _, finding := range group {
				fmt.Fprintf(&sb, "**%s**: %s\n", finding.Category, finding.Message)
				if finding.Location != "" {
					fmt.Fprintf(&sb, "  Location: `%s:%s`\n", finding.Location, lineLabel(finding.Line))
				}
				sb.WriteString("\n")
			}
		}
	case agent.ResultSuggestions:
		sb.WriteString("# Suggestions\n\n")
		if len(result.Items) == 0 {
			sb.WriteString("No suggestions available.\n")
			break
		}
		for i, item := range result.Items {
			fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, item.Title)
			fmt.Fprintf(&sb, "%s\n", item.Description)
			if item.CodeChange != "" {
				fmt.Fprintf(&sb, "\n```\n%s\n```\n", item.CodeChange)
			}
			sb.WriteString("\n")
		}
	default:
		sb.WriteString("# Agent Analysis\n\n")
		fmt.Fprintf(&sb, "%s\n", result.Summary)
		if len(result.Details) > 0 {
			sb.WriteString("\n## Details\n\n")
			for _, key := range sortedKeys(result.Details) {
				fmt.Fprintf(&sb, "- **%s**: %s\n", key, result.Details[key])
			}
		}
	}

	return sb.String()
}

func formatJSON(result *agent.Result) (string, error) {
	var payload any

	switch result.Kind {
	case agent.ResultCodeReview:
		findings := result.Findings
		if findings == nil {
			findings = []agent.Finding{}
		}
		payload = map[string]any{
			"type":     "code_review",
			"findings": findings,
			"count":    len(findings),
		}
	case agent.ResultSuggestions:
		items := result.Items
		if items == nil {
			items = []agent.Suggestion{}
		}
		payload = map[string]any{
			"type":  "suggestions",
			"items": items,
			"count": len(items),
		}
	default:
		details := result.Details
		if details == nil {
			details = map[string]string{}
		}
		payload = map[string]any{
			"type":    "analysis",
			"summary": result.Summary,
			"details": details,
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatPlain(result *agent.Result) string {
	var sb strings.Builder

	switch result.Kind {
	case agent.ResultCodeReview:
		sb.WriteString("Code Review\n===========\n\n")
		if len(result.Findings) == 0 {
			sb.WriteString("No issues found.\n")
			break
		}
		fmt.Fprintf(&sb, "Found %d issue(s):\n\n", len(result.Findings))
		for i, finding := range result.Findings {
			fmt.Fprintf(&sb, "%d. [%s] %s: %s\n",
				i+1, strings.ToUpper(string(finding.Severity)), finding.Category, finding.Message)
			if finding.Location != "" {
				fmt.Fprintf(&sb, "   Location: %s:%s\n", finding.Location, lineLabel(finding.Line))
			}
			sb.WriteString("\n")
		}
	case agent.ResultSuggestions:
		sb.WriteString("Suggestions\n===========\n\n")
		if len(result.Items) == 0 {
			sb.WriteString("No suggestions available.\n")
			break
		}
		for i, item := range result.Items {
			fmt.Fprintf(&sb, "%d. %s\n\n", i+1, item.Title)
			fmt.Fprintf(&sb, "   %s\n", item.Description)
			if item.CodeChange != "" {
				fmt.Fprintf(&sb, "\n   Code change:\n   %s\n", strings.ReplaceAll(item.CodeChange, "\n", "\n   "))
			}
			sb.WriteString("\n")
		}
	default:
		fmt.Fprintf(&sb, "Agent Analysis\n%s\n\n%s\n", strings.Repeat("=", 15), result.Summary)
		if len(result.Details) > 0 {
			sb.WriteString("\nDetails:\n\n")
			for _, key := range sortedKeys(result.Details) {
				fmt.Fprintf(&sb, "- %s: %s\n", key, result.Details[key])
			}
		}
	}

	return sb.String()
}

func filterFindings(findings []agent.Finding, severity agent.Severity) []agent.Finding {
	var out []agent.Finding
	for _, f := range findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

func severityHeading(severity agent.Severity) string {
	switch severity {
	case agent.SeverityError:
		return "Errors"
	case agent.SeverityWarning:
		return "Warnings"
	default:
		return "Info"
	}
}

func lineLabel(line int) string {
	if line <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d", line)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
