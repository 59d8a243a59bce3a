// Package commands provides the CLI commands for Tern.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tern-ai/tern/internal/config"
	"github.com/tern-ai/tern/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:   "tern",
	Short: "Tern - AI-powered coding assistant",
	Long: `Tern is an AI-powered coding assistant driven by slash commands.

Command templates live as markdown files under .tern/commands and are
hot-reloaded as they change. Run 'tern run' to execute a command,
'tern list' to see what is registered, or 'tern serve' to expose the
pipeline over a local HTTP API.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "Human-readable log output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("tern %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	// Optional .env in the working directory
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// setupLogging loads the project config and initializes the logger,
// with CLI flags taking precedence over the config file.
func setupLogging(cfg *config.Config) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(level),
		Pretty: logPretty || cfg.Log.Pretty,
	})
}
