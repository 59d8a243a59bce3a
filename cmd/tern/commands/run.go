package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tern-ai/tern/internal/agent"
	"github.com/tern-ai/tern/internal/command"
	"github.com/tern-ai/tern/internal/config"
)

var (
	runFormat string
	runDir    string
)

var runCmd = &cobra.Command{
	Use:   "run <slash-command>",
	Short: "Execute a slash command",
	Long: `Execute a slash command against the project's command registry.

Examples:
  tern run "/explain src/main.go"
  tern run "/review depth=deep src/"
  tern run --format json "/security-scan"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVar(&runFormat, "format", "markdown", "Agent result format (markdown|json|plain)")
	runCmd.Flags().StringVar(&runDir, "directory", "", "Working directory")
}

func runCommand(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(runDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	registry, err := command.NewRegistry(cfg.ResolveCommandsDir(workDir))
	if err != nil {
		return err
	}
	command.RegisterBuiltins(registry)

	router := agent.NewRouter()
	router.SetThreshold(cfg.Threshold())

	executor := command.NewExecutor(registry, router)
	executor.SetOutputFormat(command.OutputFormat(runFormat))

	ctx := cmd.Context()
	ec := command.NewExecutionContext(ctx, workDir, cfg.Env())

	input := strings.Join(args, " ")
	output, err := executor.ExecuteInput(ctx, input, ec)
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}
