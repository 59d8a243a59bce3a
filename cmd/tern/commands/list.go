package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tern-ai/tern/internal/command"
	"github.com/tern-ai/tern/internal/config"
)

var (
	listCategory string
	listDir      string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered commands",
	RunE:  listCommands,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listDir, "directory", "", "Working directory")
}

func listCommands(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(listDir)
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

	var cmds []*command.Command
	if listCategory != "" {
		cmds = registry.FilterByCategory(listCategory)
	} else {
		cmds = registry.List()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tKIND\tDESCRIPTION")
	for _, c := range cmds {
		fmt.Fprintf(w, "/%s\t%s\t%s\t%s\n", c.Meta.Name, c.Meta.Category, c.Kind(), c.Meta.Description)
	}
	return w.Flush()
}
