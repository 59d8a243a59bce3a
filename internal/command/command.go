package command

// Source identifies where a command definition came from.
type Source string

const (
	// SourceBuiltin marks commands registered programmatically.
	SourceBuiltin Source = "builtin"
	// SourceFile marks commands loaded from the commands directory.
	SourceFile Source = "file"
)

// Kind discriminates how a command executes.
type Kind string

const (
	// KindTemplate commands expand their template into a prompt.
	KindTemplate Kind = "template"
	// KindAgent commands delegate to a routed agent.
	KindAgent Kind = "agent"
)

// FilePermissions are the capability flags declared in a command
// file's frontmatter.
type FilePermissions struct {
	ReadFiles    bool `json:"readFiles" yaml:"read_files"`
	WriteFiles   bool `json:"writeFiles" yaml:"write_files"`
	ExecuteShell bool `json:"executeShell" yaml:"execute_shell"`
}

// Metadata is a command's parsed frontmatter. Immutable once
// constructed; replaced wholesale on reload.
type Metadata struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Permissions     FilePermissions `json:"permissions"`
	Args            []ArgDefinition `json:"args,omitempty"`
	Agent           bool            `json:"agent,omitempty"`
	AgentID         string          `json:"agentId,omitempty"`
	ActivationHints []string        `json:"activationHints,omitempty"`
}

// Command is a registered slash command: metadata plus the template
// body that follows the frontmatter.
type Command struct {
	Meta     Metadata `json:"meta"`
	Template string   `json:"template"`
	Source   Source   `json:"source"`
	Path     string   `json:"path,omitempty"`
}

// Kind returns how this command executes. A command is agent-backed
// when its frontmatter sets agent: true or names an agent_id.
func (c *Command) Kind() Kind {
	if c.Meta.Agent || c.Meta.AgentID != "" {
		return KindAgent
	}
	return KindTemplate
}

// Clone returns a deep copy safe to use independently of the registry.
func (c *Command) Clone() *Command {
	clone := *c

	if c.Meta.Args != nil {
		clone.Meta.Args = make([]ArgDefinition, len(c.Meta.Args))
		copy(clone.Meta.Args, c.Meta.Args)
		for i, def := range c.Meta.Args {
			if def.Default != nil {
				d := *def.Default
				clone.Meta.Args[i].Default = &d
			}
		}
	}
	if c.Meta.ActivationHints != nil {
		clone.Meta.ActivationHints = append([]string(nil), c.Meta.ActivationHints...)
	}

	return &clone
}

// Info is the summary shape consumed by command lists (CLI, palette,
// HTTP API).
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Agent       bool   `json:"agent"`
	Source      Source `json:"source"`
}

// Info returns the command's list summary.
func (c *Command) Info() Info {
	return Info{
		Name:        c.Meta.Name,
		Description: c.Meta.Description,
		Category:    c.Meta.Category,
		Agent:       c.Kind() == KindAgent,
		Source:      c.Source,
	}
}
