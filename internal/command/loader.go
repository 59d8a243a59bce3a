package command

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tern-ai/tern/internal/logging"
)

// FileExtension is the extension of command definition files.
const FileExtension = ".md"

const frontmatterDelimiter = "---"

// frontmatter is the YAML shape of a command file's metadata block.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Permissions *struct {
		ReadFiles    bool `yaml:"read_files"`
		WriteFiles   bool `yaml:"write_files"`
		ExecuteShell bool `yaml:"execute_shell"`
	} `yaml:"permissions"`
	Args []struct {
		Name        string  `yaml:"name"`
		Type        string  `yaml:"type"`
		Required    bool    `yaml:"required"`
		Description string  `yaml:"description"`
		Default     *string `yaml:"default"`
	} `yaml:"args"`
	Agent           bool     `yaml:"agent"`
	AgentID         string   `yaml:"agent_id"`
	ActivationHints []string `yaml:"activation_hints"`
}

// Loader scans a directory for command definition files.
type Loader struct {
	dir string
}

// NewLoader creates a loader for the given commands directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Scan walks the commands directory and parses every command file.
// Files that fail to parse are logged and skipped so one malformed
// command cannot break the whole scan. An unreadable directory is an
// error.
func (l *Loader) Scan() ([]*Command, error) {
	var commands []*Command

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.dir {
				return err
			}
			logging.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, FileExtension) {
			return nil
		}

		cmd, err := ParseFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("skipping invalid command file")
			return nil
		}
		commands = append(commands, cmd)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan commands directory %s: %w", l.dir, err)
	}

	return commands, nil
}

// ParseFile reads and parses a single command file.
func ParseFile(path string) (*Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cmd, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cmd.Path = path
	return cmd, nil
}

// Parse parses command file content: a '---' delimited YAML
// frontmatter block followed by the template body.
func Parse(content string) (*Command, error) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(content, "\r\n"), frontmatterDelimiter+"\n")
	if !ok {
		return nil, fmt.Errorf("missing frontmatter block")
	}

	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx < 0 {
		return nil, ErrNoClosingDelimiter
	}

	block := rest[:idx]
	body := rest[idx+len(frontmatterDelimiter)+1:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	meta, err := fm.toMetadata()
	if err != nil {
		return nil, err
	}

	return &Command{
		Meta:     meta,
		Template: strings.TrimSpace(body),
		Source:   SourceFile,
	}, nil
}

// toMetadata validates the frontmatter and converts it to Metadata.
func (fm *frontmatter) toMetadata() (Metadata, error) {
	if fm.Name == "" {
		return Metadata{}, fmt.Errorf("command name must not be empty")
	}
	if !commandNameRe.MatchString(fm.Name) {
		return Metadata{}, &InvalidNameError{Name: fm.Name}
	}
	if fm.Description == "" {
		return Metadata{}, fmt.Errorf("command '%s' has no description", fm.Name)
	}
	if fm.Category == "" {
		return Metadata{}, fmt.Errorf("command '%s' has no category", fm.Name)
	}

	meta := Metadata{
		Name:            fm.Name,
		Description:     fm.Description,
		Category:        fm.Category,
		Agent:           fm.Agent,
		AgentID:         fm.AgentID,
		ActivationHints: fm.ActivationHints,
	}

	if fm.Permissions != nil {
		meta.Permissions = FilePermissions{
			ReadFiles:    fm.Permissions.ReadFiles,
			WriteFiles:   fm.Permissions.WriteFiles,
			ExecuteShell: fm.Permissions.ExecuteShell,
		}
	}

	for _, a := range fm.Args {
		def := ArgDefinition{
			Name:        a.Name,
			Type:        ArgType(a.Type),
			Required:    a.Required,
			Description: a.Description,
			Default:     a.Default,
		}
		if def.Type == "" {
			def.Type = ArgString
		}
		if err := validateArgDefinition(def); err != nil {
			return Metadata{}, fmt.Errorf("command '%s': %w", fm.Name, err)
		}
		meta.Args = append(meta.Args, def)
	}

	return meta, nil
}
