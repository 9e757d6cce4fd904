package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/blockgraph/internal/cli/output"
	"github.com/leapstack-labs/blockgraph/internal/export"
	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/theme"
)

// LayoutOptions holds options for the layout command.
// --theme and --no-group are read through the config layer.
type LayoutOptions struct {
	InputOptions
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand() *cobra.Command {
	opts := &LayoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout <pipeline.yaml>",
		Short: "Assemble the renderable graph of a pipeline",
		Long: `Assemble the graph a renderer draws for a pipeline: sized nodes,
sibling groups, ports, edges and border colors.

Run status can be overlaid from a YAML or JSON status file. Selection,
active and queued sets change border colors and port sizes the same way
the UI does.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format (agent-friendly)
  - json: the full graph, as consumed by the UI
  - dot: Graphviz source`,
		Example: `  # Show the layout of a pipeline
  blockgraph layout pipelines/etl/metadata.yaml

  # Overlay a run and highlight a block
  blockgraph layout metadata.yaml --status run.json --selected transform_data

  # Render with Graphviz
  blockgraph layout metadata.yaml -o dot | dot -Tsvg > etl.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.StatusFile, "status", "", "Run status file (YAML or JSON)")
	cmd.Flags().StringSliceVar(&opts.Active, "active", nil, "Blocks whose ports are shown")
	cmd.Flags().StringSliceVar(&opts.Selected, "selected", nil, "Selected blocks")
	cmd.Flags().StringSliceVar(&opts.Queued, "queued", nil, "Blocks waiting to run")
	cmd.Flags().String("theme", "", "Color theme (dark|light)")
	cmd.Flags().Bool("no-group", false, "Don't group sibling leaf blocks")

	_ = cmd.RegisterFlagCompletionFunc("theme", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return theme.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLayout(cmd *cobra.Command, pipelinePath string, opts *LayoutOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	in, err := buildInput(pipelinePath, opts.InputOptions, cmdCtx.Cfg.Theme, cmdCtx.Logger)
	if err != nil {
		return err
	}

	graph := cmdCtx.Engine().Assemble(in)
	cmdCtx.Logger.Debug("graph assembled", "nodes", len(graph.Nodes), "edges", len(graph.Edges))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(graph)
	case output.ModeDOT:
		src, err := export.DOT(graph, in.Pipeline.UUID)
		if err != nil {
			return fmt.Errorf("failed to export DOT: %w", err)
		}
		r.Printf("%s", src)
		return nil
	case output.ModeMarkdown:
		return layoutMarkdown(r, in.Pipeline.UUID, graph)
	default:
		return layoutText(r, in.Pipeline.UUID, graph)
	}
}

func nodeRows(graph *layout.Graph) [][]string {
	rows := make([][]string, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		status := string(n.Status)
		if n.CycleDetected {
			status = strings.TrimSpace(status + " (cycle)")
		}
		rows = append(rows, []string{
			n.ID,
			string(n.Kind),
			n.DisplayText,
			fmt.Sprintf("%d", n.Level),
			fmt.Sprintf("%.0fx%.0f", n.Width, n.Height),
			n.Parent,
			status,
			borderSummary(n.Border),
		})
	}
	return rows
}

var nodeHeader = []string{"ID", "Kind", "Label", "Level", "Size", "Group", "Status", "Border"}

func borderSummary(b layout.Border) string {
	colors := strings.Join(dedupeColors(b.Colors[:]), " ")
	if b.Animated {
		return fmt.Sprintf("%s %s animated", colors, b.Style)
	}
	return fmt.Sprintf("%s %s", colors, b.Style)
}

func dedupeColors(colors []string) []string {
	var out []string
	for _, c := range colors {
		seen := false
		for _, o := range out {
			if o == c {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, c)
		}
	}
	return out
}

// layoutText outputs the graph as styled tables.
func layoutText(r *output.Renderer, pipeline string, graph *layout.Graph) error {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Layout: %s", pipeline))
	r.Table(nodeHeader, nodeRows(graph))
	r.Println("")

	r.Header(2, "Edges")
	for _, e := range graph.Edges {
		line := fmt.Sprintf("  %s %s %s", styles.BlockID.Render(e.From), styles.Muted.Render("->"), styles.BlockID.Render(e.To))
		if _, ok := graph.Node(e.From); !ok {
			line += " " + styles.Warning.Render("(missing upstream)")
		}
		r.Println(line)
	}
	r.Println("")

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d nodes, %d edges", len(graph.Nodes), len(graph.Edges))))
	return nil
}

// layoutMarkdown outputs the graph in markdown format.
func layoutMarkdown(r *output.Renderer, pipeline string, graph *layout.Graph) error {
	r.Header(1, fmt.Sprintf("Layout: %s", pipeline))

	r.Header(2, "Nodes")
	r.Table(nodeHeader, nodeRows(graph))
	r.Println("")

	r.Header(2, "Edges")
	for _, e := range graph.Edges {
		if _, ok := graph.Node(e.From); !ok {
			r.Printf("- %s -> %s (missing upstream)\n", e.From, e.To)
			continue
		}
		r.Printf("- %s -> %s\n", e.From, e.To)
	}
	r.Println("")

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Nodes", fmt.Sprintf("%d", len(graph.Nodes))))
	r.Println(output.FormatKeyValue("Total Edges", fmt.Sprintf("%d", len(graph.Edges))))
	return nil
}
