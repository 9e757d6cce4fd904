// Package layout turns a pipeline's block list into a renderable graph
// description: nodes with sizes and borders, edges, and per-node ports.
//
// The engine is a pure function of its input. It performs no I/O, keeps no
// state between calls and derives every id from block uuids, so assembling the
// same input twice yields identical output.
package layout

import "github.com/leapstack-labs/blockgraph/pkg/core"

// Side is the edge of a node a port sits on.
type Side string

// Port sides. NORTH ports receive upstream edges, SOUTH ports emit downstream edges.
const (
	SideNorth Side = "NORTH"
	SideSouth Side = "SOUTH"
)

// Port is a named anchor on a node's boundary.
type Port struct {
	ID     string  `json:"id"`
	Side   Side    `json:"side"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeKind distinguishes block nodes from synthetic group nodes.
type NodeKind string

// Node kinds.
const (
	NodeKindBlock NodeKind = "block"
	NodeKindGroup NodeKind = "group"
)

// BorderStyle is how a node border is drawn.
type BorderStyle string

// Border styles.
const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
)

// Border holds the four border-slot colors (top, right, bottom, left).
type Border struct {
	Colors   [4]string   `json:"colors"`
	Style    BorderStyle `json:"style"`
	Animated bool        `json:"animated"`
}

// Badges counts the blocks attached to a block, one badge row per non-zero count.
type Badges struct {
	Callbacks    int `json:"callbacks,omitempty"`
	Conditionals int `json:"conditionals,omitempty"`
	Extensions   int `json:"extensions,omitempty"`
}

// Rows returns the number of non-empty badge categories.
func (b Badges) Rows() int {
	rows := 0
	for _, n := range []int{b.Callbacks, b.Conditionals, b.Extensions} {
		if n > 0 {
			rows++
		}
	}
	return rows
}

// Node is a renderable graph node.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	// Block is set for block nodes
	Block *core.Block `json:"block,omitempty"`
	// Children is set for group nodes
	Children []*core.Block `json:"children,omitempty"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ports  []Port  `json:"ports"`
	// Parent is the id of the enclosing group node, if any
	Parent string `json:"parent,omitempty"`

	Level         int            `json:"level"`
	CycleDetected bool           `json:"cycle_detected,omitempty"`
	DisplayText   string         `json:"display_text"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Badges        Badges         `json:"badges"`
	Status        core.RunStatus `json:"status,omitempty"`
	Runtime       *float64       `json:"runtime,omitempty"`
	Border        Border         `json:"border"`
}

// Edge connects a SOUTH port of From to a NORTH port of To.
// From may name a uuid that has no node; renderers must skip such edges.
type Edge struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort string `json:"from_port"`
	ToPort   string `json:"to_port"`
}

// Graph is the assembled output consumed by a renderer.
type Graph struct {
	Nodes []*Node                    `json:"nodes"`
	Edges []Edge                     `json:"edges"`
	Ports map[string]map[string]Port `json:"ports"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Set is a read-only membership set of node ids.
type Set map[string]bool

// NewSet builds a set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = true
		}
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s Set) Has(id string) bool {
	return s[id]
}

// BlockLookup resolves the blocks attached to a block uuid.
type BlockLookup interface {
	Blocks(uuid string) []*core.Block
}

// BlockMap is a BlockLookup backed by a map.
type BlockMap map[string][]*core.Block

// Blocks implements BlockLookup.
func (m BlockMap) Blocks(uuid string) []*core.Block {
	return m[uuid]
}

// ByUpstream indexes attached blocks (callbacks, conditionals, extensions) by
// the uuids they list as upstream.
func ByUpstream(blocks []core.Block) BlockMap {
	m := make(BlockMap)
	for i := range blocks {
		b := &blocks[i]
		for _, up := range b.UpstreamBlocks {
			m[up] = append(m[up], b)
		}
	}
	return m
}

// Input is everything the engine consumes for one assembly.
type Input struct {
	Pipeline *core.Pipeline

	// Callbacks, Conditionals and Extensions are derived from the pipeline
	// when left nil.
	Callbacks    BlockLookup
	Conditionals BlockLookup
	Extensions   BlockLookup

	// Active nodes show their ports at full size.
	Active Set
	// Status overrides the status carried on blocks.
	Status map[string]core.BlockStatus
	// Queued blocks are waiting to run.
	Queued   Set
	Selected Set
	Theme    string
}
