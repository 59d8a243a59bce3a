package command

import (
	"time"

	"github.com/aymerick/raymond"
)

// Message is one conversation record exposed to templates.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the optional conversation context for context-aware
// commands.
type Conversation struct {
	ConversationID string    `json:"conversationId"`
	Messages       []Message `json:"messages"`
}

// CommandContext carries the variables a template renders against.
type CommandContext struct {
	Args          map[string]string `json:"args"`
	GitDiff       string            `json:"gitDiff,omitempty"`
	Files         []string          `json:"files,omitempty"`
	WorkspaceRoot string            `json:"workspaceRoot"`
	Env           map[string]string `json:"env,omitempty"`
	Conversation  *Conversation     `json:"conversation,omitempty"`
}

// templateData builds the data tree templates render against. String
// leaves are wrapped as safe strings so prompt text is never
// HTML-escaped during rendering.
func (c *CommandContext) templateData() map[string]any {
	args := make(map[string]any, len(c.Args))
	for k, v := range c.Args {
		args[k] = raymond.SafeString(v)
	}

	env := make(map[string]any, len(c.Env))
	for k, v := range c.Env {
		env[k] = raymond.SafeString(v)
	}

	files := make([]raymond.SafeString, 0, len(c.Files))
	for _, f := range c.Files {
		files = append(files, raymond.SafeString(f))
	}

	data := map[string]any{
		"args":           args,
		"git_diff":       raymond.SafeString(c.GitDiff),
		"files":          files,
		"workspace_root": raymond.SafeString(c.WorkspaceRoot),
		"env":            env,
	}

	if c.Conversation != nil {
		messages := make([]map[string]any, 0, len(c.Conversation.Messages))
		for _, m := range c.Conversation.Messages {
			messages = append(messages, map[string]any{
				"role":      raymond.SafeString(m.Role),
				"content":   raymond.SafeString(m.Content),
				"timestamp": raymond.SafeString(m.Timestamp.Format(time.RFC3339)),
			})
		}
		data["conversation"] = map[string]any{
			"conversation_id": raymond.SafeString(c.Conversation.ConversationID),
			"messages":        messages,
		}
	}

	return data
}
