package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/blockgraph/internal/cli/config"
	"github.com/leapstack-labs/blockgraph/internal/cli/output"
	intconfig "github.com/leapstack-labs/blockgraph/internal/config"
	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/internal/theme"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	// Validated when the config was loaded; the env fallback may be off
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Engine builds a layout engine from the configured sizing options.
func (c *CommandContext) Engine() *layout.Engine {
	return layout.New(c.Cfg.Layout, theme.Lookup{})
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults
// and the BLOCKGRAPH_OUTPUT environment variable.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", intconfig.DefaultOutput),
		Verbose:      os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		Theme:        getEnvOrDefault(config.EnvPrefix+"THEME", intconfig.DefaultTheme),
		Layout:       layout.DefaultOptions(),
		UI: config.UIConfig{
			Port:          intconfig.DefaultUIPort,
			Watch:         intconfig.DefaultUIWatch,
			AutoOpen:      intconfig.DefaultAutoOpen,
			SessionSecret: intconfig.DefaultSessionSecret,
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// InputOptions are the per-invocation view flags of the layout command.
type InputOptions struct {
	StatusFile string
	Active     []string
	Selected   []string
	Queued     []string
}

// buildInput loads the pipeline and optional status file into an engine input.
// Blocks with status "initial" in the status file are queued alongside --queued.
func buildInput(pipelinePath string, opts InputOptions, themeName string, logger *slog.Logger) (layout.Input, error) {
	p, err := loader.LoadPipeline(pipelinePath)
	if err != nil {
		return layout.Input{}, err
	}
	logger.Debug("pipeline loaded", "path", pipelinePath, "uuid", p.UUID, "blocks", len(p.Blocks))

	in := layout.Input{
		Pipeline: p,
		Active:   layout.NewSet(splitIDs(opts.Active)...),
		Selected: layout.NewSet(splitIDs(opts.Selected)...),
		Theme:    themeName,
	}

	queued := splitIDs(opts.Queued)
	if opts.StatusFile != "" {
		status, err := loader.LoadStatus(opts.StatusFile)
		if err != nil {
			return layout.Input{}, fmt.Errorf("failed to load status: %w", err)
		}
		in.Status = map[string]core.BlockStatus(status)
		queued = append(queued, status.Queued()...)
		logger.Debug("status loaded", "path", opts.StatusFile, "blocks", len(status))
	}
	in.Queued = layout.NewSet(queued...)

	return in, nil
}

// splitIDs flattens values that may themselves be comma-separated.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
