package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// Default timing and routing values.
const (
	DefaultDebounceMs          = 300
	DefaultTickMs              = 50
	DefaultActivationThreshold = 0.6
)

// Config holds the runtime configuration.
type Config struct {
	// CommandsDir is the directory scanned for command definition files.
	// Relative paths are resolved against the project directory.
	CommandsDir string `json:"commandsDir,omitempty"`

	// DebounceMs is the idle window after the last file event before the
	// command registry reloads.
	DebounceMs int `json:"debounceMs,omitempty"`

	// TickMs is the sweep interval of the watcher's debounce loop.
	TickMs int `json:"tickMs,omitempty"`

	// ActivationThreshold is the minimum agent score required for routing.
	ActivationThreshold *float64 `json:"activationThreshold,omitempty"`

	// EnvAllowlist names the environment variables exposed to templates.
	EnvAllowlist []string `json:"envAllowlist,omitempty"`

	// Log configures the logger.
	Log LogConfig `json:"log,omitempty"`

	// Server configures the local HTTP API.
	Server ServerConfig `json:"server,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Pretty bool   `json:"pretty,omitempty"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Port       int  `json:"port,omitempty"`
	EnableCORS bool `json:"enableCors,omitempty"`
}

// Debounce returns the debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	ms := c.DebounceMs
	if ms <= 0 {
		ms = DefaultDebounceMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Tick returns the debounce sweep interval as a duration.
func (c *Config) Tick() time.Duration {
	ms := c.TickMs
	if ms <= 0 {
		ms = DefaultTickMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Threshold returns the activation threshold, falling back to the default.
func (c *Config) Threshold() float64 {
	if c.ActivationThreshold == nil {
		return DefaultActivationThreshold
	}
	return *c.ActivationThreshold
}

// ResolveCommandsDir resolves the commands directory against a project root.
func (c *Config) ResolveCommandsDir(directory string) string {
	if c.CommandsDir == "" {
		return CommandsDir(directory)
	}
	if filepath.IsAbs(c.CommandsDir) {
		return c.CommandsDir
	}
	return filepath.Join(directory, c.CommandsDir)
}

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.tern/)
// 2. Global config (~/.config/tern/ - XDG compatible)
// 3. Project config (.tern/)
// 4. TERN_CONFIG file
// 5. TERN_CONFIG_CONTENT inline JSON
// 6. Environment variables
func Load(directory string) (*Config, error) {
	config := &Config{}

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Dotfile-style global config (~/.tern/)
	home := os.Getenv("HOME")
	if home != "" {
		dotDir := filepath.Join(home, ".tern")
		loadOnce(filepath.Join(dotDir, "tern.json"), dotDir)
		loadOnce(filepath.Join(dotDir, "tern.jsonc"), dotDir)
	}

	// 2. XDG-compatible global config (~/.config/tern/)
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "tern.json"), globalPath)
	loadOnce(filepath.Join(globalPath, "tern.jsonc"), globalPath)

	// 3. Project config
	if directory != "" {
		projectConfigDir := filepath.Join(directory, ".tern")
		loadOnce(filepath.Join(directory, "tern.json"), directory)
		loadOnce(filepath.Join(directory, "tern.jsonc"), directory)
		loadOnce(filepath.Join(projectConfigDir, "tern.json"), projectConfigDir)
		loadOnce(filepath.Join(projectConfigDir, "tern.jsonc"), projectConfigDir)
	}

	// 4. TERN_CONFIG file override
	if configPath := os.Getenv("TERN_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 5. TERN_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("TERN_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig Config
		if err := json.Unmarshal(jsonc.ToJSON([]byte(configContent)), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 6. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply interpolation
	data = interpolate(data, baseDir)

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	// Handle {env:VAR_NAME} placeholders
	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	// Handle {file:path} placeholders
	filePattern := regexp.MustCompile(`\{file:([^}]+)\}`)
	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]

		if strings.HasPrefix(filePath, "~/") {
			home := os.Getenv("HOME")
			filePath = filepath.Join(home, filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}

		// Escape for JSON string
		escaped := strings.ReplaceAll(string(content), "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		escaped = strings.ReplaceAll(escaped, "\r", "\\r")
		escaped = strings.ReplaceAll(escaped, "\t", "\\t")

		return escaped
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *Config) {
	if source.CommandsDir != "" {
		target.CommandsDir = source.CommandsDir
	}
	if source.DebounceMs > 0 {
		target.DebounceMs = source.DebounceMs
	}
	if source.TickMs > 0 {
		target.TickMs = source.TickMs
	}
	if source.ActivationThreshold != nil {
		target.ActivationThreshold = source.ActivationThreshold
	}
	if len(source.EnvAllowlist) > 0 {
		target.EnvAllowlist = append(target.EnvAllowlist, source.EnvAllowlist...)
	}
	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
	}
	if source.Log.Pretty {
		target.Log.Pretty = true
	}
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.EnableCORS {
		target.Server.EnableCORS = true
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *Config) {
	if dir := os.Getenv("TERN_COMMANDS_DIR"); dir != "" {
		config.CommandsDir = dir
	}
	if level := os.Getenv("TERN_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if threshold := os.Getenv("TERN_ACTIVATION_THRESHOLD"); threshold != "" {
		if v, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.ActivationThreshold = &v
		}
	}
	if port := os.Getenv("TERN_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			config.Server.Port = v
		}
	}
}

// Save saves the configuration to a file.
func Save(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Env returns the allowlisted environment variables as a map.
// Variables absent from the process environment are omitted.
func (c *Config) Env() map[string]string {
	env := make(map[string]string, len(c.EnvAllowlist))
	for _, name := range c.EnvAllowlist {
		if value, ok := os.LookupEnv(name); ok {
			env[name] = value
		}
	}
	return env
}
