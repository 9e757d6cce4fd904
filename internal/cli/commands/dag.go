package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/blockgraph/internal/cli/output"
	"github.com/leapstack-labs/blockgraph/internal/dag"
	"github.com/leapstack-labs/blockgraph/internal/export"
	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/internal/theme"
)

// GraphQuerier provides read-only access to DAG structure.
type GraphQuerier interface {
	GetParents(string) []string
	GetChildren(string) []string
	NodeCount() int
	EdgeCount() int
}

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag <pipeline.yaml>",
		Short: "Show the dependency graph of a pipeline",
		Long: `Display the dependency graph (DAG) of a pipeline's blocks.

Blocks are grouped by depth level, showing which blocks can run
in parallel and their dependency relationships. Cycles and upstream
references to missing blocks are reported as warnings.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the DAG
  blockgraph dag pipelines/etl/metadata.yaml

  # Output as JSON
  blockgraph dag metadata.yaml --output json

  # Ungrouped Graphviz source
  blockgraph dag metadata.yaml -o dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDAG(cmd, args[0])
		},
	}

	return cmd
}

func runDAG(cmd *cobra.Command, pipelinePath string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	p, err := loader.LoadPipeline(pipelinePath)
	if err != nil {
		return err
	}

	graph := dag.New(p.Blocks)
	levels := graph.Levels()

	hasCycle, cycle := graph.HasCycle()
	if hasCycle {
		r.Warning(fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}
	missing := graph.GetMissing()
	if len(missing) > 0 {
		r.Warning(fmt.Sprintf("upstream blocks not found: %s", strings.Join(missing, ", ")))
	}

	effectiveMode := r.EffectiveMode()
	switch effectiveMode {
	case output.ModeJSON:
		return dagJSON(r, p.UUID, graph, levels, cycle, missing)
	case output.ModeDOT:
		opts := cmdCtx.Cfg.Layout
		opts.GroupSiblings = false
		g := layout.New(opts, theme.Lookup{}).Assemble(layout.Input{Pipeline: p, Theme: cmdCtx.Cfg.Theme})
		src, err := export.DOT(g, p.UUID)
		if err != nil {
			return fmt.Errorf("failed to export DOT: %w", err)
		}
		r.Printf("%s", src)
		return nil
	case output.ModeMarkdown:
		return dagMarkdown(r, graph, levels)
	default:
		return dagText(r, graph, levels)
	}
}

// dagText outputs DAG in styled text format.
func dagText(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	styles := r.Styles()

	r.Header(1, "Dependency Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, id := range level {
			deps := graph.GetParents(id)
			children := graph.GetChildren(id)

			r.Printf("  %s\n", styles.BlockID.Render(id))
			if len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if len(children) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d blocks, %d dependencies", graph.NodeCount(), graph.EdgeCount())))

	return nil
}

// dagMarkdown outputs DAG in markdown format.
func dagMarkdown(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	r.Println(output.FormatHeader(1, "Dependency Graph"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Roots)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, id := range level {
			deps := graph.GetParents(id)
			children := graph.GetChildren(id)

			r.Printf("- %s\n", id)
			if len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if len(children) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Blocks", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))

	return nil
}

// dagJSON outputs DAG in JSON format.
func dagJSON(r *output.Renderer, pipeline string, graph GraphQuerier, levels [][]string, cycle, missing []string) error {
	dagOutput := output.DAGOutput{
		Pipeline:    pipeline,
		Levels:      make([]output.DAGLevel, 0, len(levels)),
		TotalBlocks: graph.NodeCount(),
		TotalEdges:  graph.EdgeCount(),
		Cycle:       cycle,
		Missing:     missing,
	}

	for i, level := range levels {
		dagLevel := output.DAGLevel{
			Level:  i,
			Blocks: make([]output.DAGNode, 0, len(level)),
		}

		for _, id := range level {
			dagLevel.Blocks = append(dagLevel.Blocks, output.DAGNode{
				UUID:      id,
				DependsOn: nonNil(graph.GetParents(id)),
				UsedBy:    nonNil(graph.GetChildren(id)),
			})
		}

		dagOutput.Levels = append(dagOutput.Levels, dagLevel)
	}

	return r.JSON(dagOutput)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
