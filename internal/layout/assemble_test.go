package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// fakeColors names colors after the block color override, or the type.
type fakeColors struct{}

func (fakeColors) Colors(t core.BlockType, opts ColorOptions) Colors {
	name := string(t)
	if opts.BlockColor != "" {
		name = string(opts.BlockColor)
	}
	return Colors{Accent: "accent-" + name, AccentLight: "light-" + name}
}

func (fakeColors) Muted(string) string { return "muted" }

func blk(id string, upstream ...string) core.Block {
	return core.Block{UUID: id, Type: core.BlockTypeTransformer, UpstreamBlocks: upstream}
}

func pipelineOf(blocks ...core.Block) *core.Pipeline {
	return &core.Pipeline{UUID: "p", Type: core.PipelineTypePython, Blocks: blocks}
}

func assemble(t *testing.T, in Input) *Graph {
	t.Helper()
	g := New(DefaultOptions(), fakeColors{}).Assemble(in)
	require.NotNil(t, g)
	return g
}

func edgeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

func groupNodes(g *Graph) []*Node {
	var groups []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeKindGroup {
			groups = append(groups, n)
		}
	}
	return groups
}

func TestIDsAreIdempotent(t *testing.T) {
	assert.Equal(t, EdgeID("a", "b"), EdgeID("a", "b"))
	assert.Equal(t, "a-b", EdgeID("a", "b"))
	assert.Equal(t, NorthPortID("a", "b"), NorthPortID("a", "b"))
	assert.Equal(t, "a-b-to", NorthPortID("a", "b"))
	assert.Equal(t, "b-to", NorthPortID("", "b"))
	assert.Equal(t, "a-b-from", SouthPortID("a", "b"))
	assert.Equal(t, "a-from", SouthPortID("a", ""))

	in := Input{Pipeline: pipelineOf(blk("a"), blk("b", "a"), blk("c", "a"), blk("d", "b"))}
	first := assemble(t, in)
	second := assemble(t, in)

	assert.Equal(t, edgeIDs(first), edgeIDs(second))
	assert.Equal(t, first.Ports, second.Ports)
}

func TestAssemble_GroupsSiblingLeaves(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(blk("A"), blk("B", "A"), blk("C", "A"))})

	groups := groupNodes(g)
	require.Len(t, groups, 1)
	group := groups[0]
	assert.Equal(t, "parent-A", group.ID)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "B", group.Children[0].UUID)
	assert.Equal(t, "C", group.Children[1].UUID)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{
		ID:       "A-parent-A",
		From:     "A",
		To:       "parent-A",
		FromPort: "A-parent-A-from",
		ToPort:   "A-parent-A-to",
	}, g.Edges[0])

	for _, id := range []string{"B", "C"} {
		node, ok := g.Node(id)
		require.True(t, ok)
		assert.Equal(t, "parent-A", node.Parent)
		assert.NotContains(t, g.Ports[id], NorthPortID("A", id))
		assert.NotContains(t, g.Ports["A"], SouthPortID("A", id))
	}

	assert.Contains(t, g.Ports["A"], "A-parent-A-from")
	assert.Contains(t, g.Ports["parent-A"], "A-parent-A-to")

	// Group precedes its members
	assert.Equal(t, "A", g.Nodes[0].ID)
	assert.Equal(t, "parent-A", g.Nodes[1].ID)
}

func TestAssemble_GroupIDClashSkipsGrouping(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(
		blk("A"), blk("B", "A"), blk("C", "A"), blk("parent-A"),
	)})

	assert.Empty(t, groupNodes(g))
	assert.Equal(t, []string{"A-B", "A-C"}, edgeIDs(g))

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		assert.False(t, seen[n.ID], "duplicate node %s", n.ID)
		seen[n.ID] = true
	}
	assert.Contains(t, g.Ports["parent-A"], "parent-A-to")
	assert.Contains(t, g.Ports["B"], "A-B-to")
}

func TestAssemble_ChainIsNotGrouped(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(blk("A"), blk("B", "A"), blk("C", "B"))})

	assert.Empty(t, groupNodes(g))
	assert.Equal(t, []string{"A-B", "B-C"}, edgeIDs(g))
}

func TestAssemble_SingleLeafIsNotGrouped(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(blk("A"), blk("B", "A"), blk("C", "B"), blk("D", "B"), blk("E", "A"))})

	// B has dependents so only E is a candidate under A; C and D group under B
	groups := groupNodes(g)
	require.Len(t, groups, 1)
	assert.Equal(t, "parent-B", groups[0].ID)
	assert.ElementsMatch(t, []string{"A-B", "A-E", "B-parent-B"}, edgeIDs(g))
	assert.Contains(t, g.Ports["E"], "A-E-to")
}

func TestAssemble_GroupingDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.GroupSiblings = false

	g := New(opts, fakeColors{}).Assemble(Input{Pipeline: pipelineOf(blk("A"), blk("B", "A"), blk("C", "A"))})

	assert.Empty(t, groupNodes(g))
	assert.Equal(t, []string{"A-B", "A-C"}, edgeIDs(g))
}

func TestAssemble_GroupSize(t *testing.T) {
	opts := DefaultOptions()
	g := assemble(t, Input{Pipeline: pipelineOf(blk("A"), blk("short", "A"), blk("a_much_longer_name", "A"))})

	group, ok := g.Node("parent-A")
	require.True(t, ok)
	short, _ := g.Node("short")
	long, _ := g.Node("a_much_longer_name")

	assert.InDelta(t, long.Width+2*opts.GroupPadding, group.Width, 1e-9)
	assert.InDelta(t, short.Height+long.Height+opts.RowSpacing+2*opts.GroupPadding, group.Height, 1e-9)
	assert.Equal(t, 1, group.Level)
}

func TestAssemble_CycleTerminates(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(blk("A", "B"), blk("B", "A"))})

	require.Len(t, g.Nodes, 2)
	for _, n := range g.Nodes {
		assert.GreaterOrEqual(t, n.Level, 0)
		assert.True(t, n.CycleDetected)
	}
	assert.ElementsMatch(t, []string{"B-A", "A-B"}, edgeIDs(g))
}

func TestAssemble_DanglingUpstream(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(blk("B", "ghost"))})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "ghost", g.Edges[0].From)
	_, ok := g.Node("ghost")
	assert.False(t, ok)
	assert.Contains(t, g.Ports["B"], "ghost-B-to")
	assert.NotContains(t, g.Ports, "ghost")
}

func TestAssemble_EmptyInput(t *testing.T) {
	g := assemble(t, Input{})
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.NotNil(t, g.Ports)
}

func TestAssemble_PortsPerNeighbour(t *testing.T) {
	g := assemble(t, Input{Pipeline: pipelineOf(
		blk("A"), blk("B", "A"), blk("C", "A"), blk("D", "B", "C"),
	)})

	a := g.Ports["A"]
	assert.Contains(t, a, "A-to")
	assert.Contains(t, a, "A-B-from")
	assert.Contains(t, a, "A-C-from")
	assert.Contains(t, a, "A-add-upstream")
	assert.Contains(t, a, "A-add-downstream")
	assert.NotContains(t, a, "A-from")
	assert.Equal(t, SideSouth, a["A-B-from"].Side)

	d := g.Ports["D"]
	assert.Contains(t, d, "B-D-to")
	assert.Contains(t, d, "C-D-to")
	assert.Contains(t, d, "D-from")
	assert.Equal(t, SideNorth, d["B-D-to"].Side)

	node, _ := g.Node("D")
	assert.Len(t, node.Ports, len(d))
}

func TestAssemble_ActivePortsAreSized(t *testing.T) {
	opts := DefaultOptions()
	g := assemble(t, Input{
		Pipeline: pipelineOf(blk("A"), blk("B", "A")),
		Active:   NewSet("B"),
	})

	for _, p := range g.Ports["A"] {
		assert.Zero(t, p.Width, p.ID)
		assert.Zero(t, p.Height, p.ID)
	}
	for _, p := range g.Ports["B"] {
		assert.Equal(t, opts.ActivePortSize, p.Width, p.ID)
		assert.Equal(t, opts.ActivePortSize, p.Height, p.ID)
	}
}

func TestAssemble_Badges(t *testing.T) {
	p := pipelineOf(blk("A"))
	p.Callbacks = []core.Block{{UUID: "cb", Type: core.BlockTypeCallback, UpstreamBlocks: []string{"A"}}}
	p.Extensions = map[string][]core.Block{
		"great_expectations": {
			{UUID: "ge1", Type: core.BlockTypeExtension, UpstreamBlocks: []string{"A"}},
			{UUID: "ge2", Type: core.BlockTypeExtension, UpstreamBlocks: []string{"A"}},
		},
	}

	g := assemble(t, Input{Pipeline: p})
	node, _ := g.Node("A")
	assert.Equal(t, Badges{Callbacks: 1, Extensions: 2}, node.Badges)

	opts := DefaultOptions()
	assert.InDelta(t, opts.FixedHeaderBlock+2*opts.BadgeHeight+2*opts.RowSpacing, node.Height, 1e-9)

	// Explicit lookups win over pipeline-derived ones
	g = assemble(t, Input{Pipeline: p, Callbacks: BlockMap{}})
	node, _ = g.Node("A")
	assert.Zero(t, node.Badges.Callbacks)
}

func TestAssemble_StatusOverride(t *testing.T) {
	runtime := 2.5
	b := blk("A")
	b.Status = core.RunStatusCompleted

	g := assemble(t, Input{
		Pipeline: pipelineOf(b, blk("B")),
		Status:   map[string]core.BlockStatus{"A": {Status: core.RunStatusRunning, Runtime: &runtime}},
	})

	a, _ := g.Node("A")
	assert.Equal(t, core.RunStatusRunning, a.Status)
	require.NotNil(t, a.Runtime)
	assert.Equal(t, 2.5, *a.Runtime)
	assert.Equal(t, BorderDashed, a.Border.Style)
	assert.True(t, a.Border.Animated)

	other, _ := g.Node("B")
	assert.Equal(t, BorderSolid, other.Border.Style)
	assert.False(t, other.Border.Animated)
}
