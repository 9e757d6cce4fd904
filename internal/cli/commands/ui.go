package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/internal/theme"
	"github.com/leapstack-labs/blockgraph/internal/ui"
	"github.com/leapstack-labs/blockgraph/internal/ui/workspace"
)

// UIOptions holds options for the ui command.
// --port, --watch, --no-browser and --theme are read through the config layer.
type UIOptions struct {
	StatusFile string
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui <pipeline.yaml>",
		Short: "Serve a pipeline graph to the browser",
		Long: `Start a local web server that serves the assembled graph of a pipeline.

The server provides:
- GET /api/graph: the graph as JSON (?selected=a,b&active=c)
- GET /api/graph/updates: server-sent events pushing the graph on every change
- PUT /api/status: replace the run status overlay
- PUT /api/theme: store the browser's color theme

With --watch the pipeline file is reloaded whenever it changes on disk.`,
		Example: `  # Start UI on default port
  blockgraph ui pipelines/etl/metadata.yaml

  # Start on custom port with a run overlay
  blockgraph ui metadata.yaml --port 3000 --status run.json

  # Start without auto-opening browser
  blockgraph ui metadata.yaml --no-browser`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, args[0], opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("no-browser", false, "Don't auto-open browser")
	cmd.Flags().Bool("watch", true, "Watch the pipeline file for changes")
	cmd.Flags().String("theme", "", "Default color theme (dark|light)")
	cmd.Flags().StringVar(&opts.StatusFile, "status", "", "Initial run status file (YAML or JSON)")

	_ = cmd.RegisterFlagCompletionFunc("theme", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return theme.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runUI(cmd *cobra.Command, pipelinePath string, opts *UIOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	ws := workspace.New(pipelinePath, cmdCtx.Engine(), logger)
	if err := ws.Reload(); err != nil {
		return err
	}

	if opts.StatusFile != "" {
		status, err := loader.LoadStatus(opts.StatusFile)
		if err != nil {
			return fmt.Errorf("failed to load status: %w", err)
		}
		ws.SetStatus(status)
	}

	server := ui.NewServer(ui.Config{
		Workspace:     ws,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		SessionSecret: cfg.UI.SessionSecret,
		Theme:         cfg.Theme,
		Logger:        logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if cfg.UI.AutoOpen {
		go openBrowser(url)
	}

	r.Printf("Serving %s on %s\n", pipelinePath, url)
	r.Muted("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		return err
	}
	r.Success("Server stopped")
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
