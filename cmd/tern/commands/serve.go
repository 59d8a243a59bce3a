package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tern-ai/tern/internal/agent"
	"github.com/tern-ai/tern/internal/command"
	"github.com/tern-ai/tern/internal/config"
	"github.com/tern-ai/tern/internal/logging"
	"github.com/tern-ai/tern/internal/server"
)

var (
	servePort int
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command pipeline over a local HTTP API",
	Long: `Start a local HTTP server exposing the command registry and
executor. The commands directory is watched and the registry reloads
as command files change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Working directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(serveDir)
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

	watcher, err := command.NewWatcher(registry.Dir(), registry, command.WatcherOptions{
		Debounce: cfg.Debounce(),
		Tick:     cfg.Tick(),
	})
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Close()

	router := agent.NewRouter()
	router.SetThreshold(cfg.Threshold())

	executor := command.NewExecutor(registry, router)

	serverConfig := server.DefaultConfig()
	serverConfig.Directory = workDir
	serverConfig.EnableCORS = cfg.Server.EnableCORS || serverConfig.EnableCORS
	if servePort != 0 {
		serverConfig.Port = servePort
	} else if cfg.Server.Port != 0 {
		serverConfig.Port = cfg.Server.Port
	}

	srv := server.New(serverConfig, registry, executor, router, cfg.Env())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Int("port", serverConfig.Port).Str("dir", workDir).Msg("starting server")
	return srv.Start(ctx)
}
