package layout

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/blockgraph/internal/dag"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// Engine assembles graphs. It is immutable and safe for concurrent use.
type Engine struct {
	opts   Options
	sizer  *Sizer
	colors ColorLookup
}

// New creates an Engine. A nil ColorLookup falls back to neutral greys.
func New(opts Options, colors ColorLookup) *Engine {
	if colors == nil {
		colors = plainColors{}
	}
	return &Engine{
		opts:   opts,
		sizer:  NewSizer(opts),
		colors: colors,
	}
}

// Options returns the tunables the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// assembly is the scratch state of one Assemble call.
type assembly struct {
	in        Input
	opts      Options
	graph     *dag.Graph
	down      map[string][]*core.Block
	sizer     *Sizer
	colorizer *colorizer

	callbacks    BlockLookup
	conditionals BlockLookup
	extensions   BlockLookup

	nodes    []*Node
	nodeByID map[string]*Node
	ports    map[string]*portSet
	edges    []Edge
}

// Assemble builds the graph for in. It never fails: dangling upstream ids
// produce edges to absent nodes, and cycles only limit depth recursion.
// Block uuids are assumed unique.
func (e *Engine) Assemble(in Input) *Graph {
	var blocks []core.Block
	if in.Pipeline != nil {
		blocks = in.Pipeline.Blocks
	}

	a := &assembly{
		in:    in,
		opts:  e.opts,
		graph: dag.New(blocks),
		down:  dag.Downstream(blocks),
		sizer: e.sizer,
		colorizer: &colorizer{
			lookup:   e.colors,
			theme:    in.Theme,
			queued:   in.Queued,
			selected: in.Selected,
		},
		nodeByID: make(map[string]*Node, len(blocks)),
		ports:    make(map[string]*portSet, len(blocks)),
	}
	a.resolveLookups()

	a.buildBlockNodes()
	a.colorBorders()
	if e.opts.GroupSiblings {
		a.groupSiblings()
	}
	return a.finish()
}

func (a *assembly) resolveLookups() {
	p := a.in.Pipeline
	a.callbacks, a.conditionals, a.extensions = a.in.Callbacks, a.in.Conditionals, a.in.Extensions

	if a.callbacks == nil {
		a.callbacks = BlockMap{}
		if p != nil {
			a.callbacks = ByUpstream(p.Callbacks)
		}
	}
	if a.conditionals == nil {
		a.conditionals = BlockMap{}
		if p != nil {
			a.conditionals = ByUpstream(p.Conditionals)
		}
	}
	if a.extensions == nil {
		a.extensions = BlockMap{}
		if p != nil {
			names := make([]string, 0, len(p.Extensions))
			for name := range p.Extensions {
				names = append(names, name)
			}
			sort.Strings(names)

			var all []core.Block
			for _, name := range names {
				all = append(all, p.Extensions[name]...)
			}
			a.extensions = ByUpstream(all)
		}
	}
}

// downstreamIDs returns the distinct uuids of blocks depending on id.
func (a *assembly) downstreamIDs(id string) []string {
	deps := a.down[id]
	if len(deps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(deps))
	for _, b := range deps {
		if !contains(ids, b.UUID) {
			ids = append(ids, b.UUID)
		}
	}
	return ids
}

func (a *assembly) statusOf(b *core.Block) (core.RunStatus, *float64) {
	if s, ok := a.in.Status[b.UUID]; ok {
		return s.Status, s.Runtime
	}
	return b.Status, b.Runtime
}

func (a *assembly) buildBlockNodes() {
	for _, id := range a.graph.IDs() {
		b, _ := a.graph.GetNode(id)
		upstream := a.graph.GetParents(id)
		downstream := a.downstreamIDs(id)

		label := LabelFor(b, a.in.Pipeline)
		badges := Badges{
			Callbacks:    len(a.callbacks.Blocks(id)),
			Conditionals: len(a.conditionals.Blocks(id)),
			Extensions:   len(a.extensions.Blocks(id)),
		}
		width, height := a.sizer.Size(label, b.Tags, badges)
		level, cycle := a.graph.DepthWithCycle(id)
		status, runtime := a.statusOf(b)

		node := &Node{
			ID:            id,
			Kind:          NodeKindBlock,
			Block:         b,
			Width:         width,
			Height:        height,
			Level:         level,
			CycleDetected: cycle,
			DisplayText:   label.DisplayText,
			Subtitle:      label.Subtitle,
			Tags:          b.Tags,
			Badges:        badges,
			Status:        status,
			Runtime:       runtime,
		}
		a.nodes = append(a.nodes, node)
		a.nodeByID[id] = node
		a.ports[id] = blockPorts(id, upstream, downstream)

		for _, up := range upstream {
			a.edges = append(a.edges, edgeBetween(up, id))
		}
	}
}

// colorBorders resolves every block border. Blocks sharing the same non-empty
// downstream set are merge siblings of each other.
func (a *assembly) colorBorders() {
	siblings := make(map[string][]*core.Block)
	keys := make(map[string]string, len(a.nodes))

	for _, node := range a.nodes {
		downstream := a.downstreamIDs(node.ID)
		if len(downstream) == 0 {
			continue
		}
		key := downstreamKey(downstream)
		keys[node.ID] = key
		siblings[key] = append(siblings[key], node.Block)
	}

	for _, node := range a.nodes {
		var merge []*core.Block
		if key, ok := keys[node.ID]; ok {
			merge = siblings[key]
		}
		node.Border = a.colorizer.blockBorder(node.Block, merge, node.Status)
	}
}

// downstreamKey identifies a downstream set regardless of order.
func downstreamKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func (a *assembly) finish() *Graph {
	g := &Graph{
		Nodes: a.nodes,
		Edges: a.edges,
		Ports: make(map[string]map[string]Port, len(a.nodes)),
	}
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}

	for _, node := range a.nodes {
		size := 0.0
		if a.in.Active.Has(node.ID) {
			size = a.opts.ActivePortSize
		}
		list, byID := a.ports[node.ID].sized(size)
		node.Ports = list
		g.Ports[node.ID] = byID
	}
	return g
}
