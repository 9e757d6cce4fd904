// Package dag provides dependency graph operations over pipeline blocks.
// It builds the downstream (reverse) adjacency from declared upstream lists and
// computes cycle-safe depths. Input is never assumed to be acyclic or complete.
package dag

import (
	"sort"

	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// Downstream builds the reverse adjacency of blocks: for every uuid, the blocks
// that list it in their upstream_blocks. Order follows the block list.
// Uuids that nothing depends on are absent from the map.
func Downstream(blocks []core.Block) map[string][]*core.Block {
	down := make(map[string][]*core.Block)
	for i := range blocks {
		b := &blocks[i]
		for _, up := range dedupe(b.UpstreamBlocks) {
			down[up] = append(down[up], b)
		}
	}
	return down
}

// Graph is a read-mostly view over a block list.
// It is not safe for concurrent use: depth results are memoized lazily.
type Graph struct {
	nodes    map[string]*core.Block
	order    []string            // block uuids in declaration order
	children map[string][]string // parent -> children (dependents)
	parents  map[string][]string // child -> parents (dependencies)
	cyclic   map[string]bool     // blocks that can reach themselves upstream
	depths   map[string]depthResult
}

// depthResult is a memoized depth of a block that sits on no cycle.
type depthResult struct {
	depth int
	cut   bool
}

// New builds a graph from blocks. Dangling upstream references are kept as
// parents; they simply have no node of their own.
func New(blocks []core.Block) *Graph {
	g := &Graph{
		nodes:    make(map[string]*core.Block, len(blocks)),
		order:    make([]string, 0, len(blocks)),
		children: make(map[string][]string),
		parents:  make(map[string][]string, len(blocks)),
		depths:   make(map[string]depthResult, len(blocks)),
	}

	for i := range blocks {
		b := &blocks[i]
		if _, exists := g.nodes[b.UUID]; !exists {
			g.order = append(g.order, b.UUID)
		}
		// Duplicate uuids: last write wins
		g.nodes[b.UUID] = b
		g.parents[b.UUID] = dedupe(b.UpstreamBlocks)
	}

	for _, id := range g.order {
		for _, parentID := range g.parents[id] {
			g.children[parentID] = append(g.children[parentID], id)
		}
	}
	g.cyclic = g.cyclicBlocks()

	return g
}

// cyclicBlocks returns the blocks that belong to a strongly connected
// component of more than one block, or that list themselves as upstream.
// It uses Tarjan's algorithm over the upstream edges between known blocks.
func (g *Graph) cyclicBlocks() map[string]bool {
	index := make(map[string]int, len(g.order))
	low := make(map[string]int, len(g.order))
	onStack := make(map[string]bool)
	var stack []string
	next := 0
	cyclic := make(map[string]bool)

	var connect func(id string)
	connect = func(id string) {
		index[id] = next
		low[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, parentID := range g.parents[id] {
			if _, ok := g.nodes[parentID]; !ok {
				continue
			}
			if parentID == id {
				cyclic[id] = true
				continue
			}
			if _, seen := index[parentID]; !seen {
				connect(parentID)
				low[id] = min(low[id], low[parentID])
			} else if onStack[parentID] {
				low[id] = min(low[id], index[parentID])
			}
		}

		if low[id] != index[id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 {
			for _, member := range component {
				cyclic[member] = true
			}
		}
	}

	for _, id := range g.order {
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}
	return cyclic
}

// GetNode returns a block by uuid.
func (g *Graph) GetNode(id string) (*core.Block, bool) {
	b, ok := g.nodes[id]
	return b, ok
}

// GetParents returns the declared upstream uuids of a block, without duplicates.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the uuids of blocks that depend on id.
func (g *Graph) GetChildren(id string) []string {
	return g.children[id]
}

// IDs returns block uuids in declaration order.
func (g *Graph) IDs() []string {
	return g.order
}

// NodeCount returns the number of blocks in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of upstream references, dangling ones included.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, parents := range g.parents {
		count += len(parents)
	}
	return count
}

// path is an immutable linked list of uuids visited on the current branch.
// Extending it never changes what sibling branches see.
type path struct {
	id   string
	prev *path
}

func (p *path) with(id string) *path {
	return &path{id: id, prev: p}
}

func (p *path) contains(id string) bool {
	for cur := p; cur != nil; cur = cur.prev {
		if cur.id == id {
			return true
		}
	}
	return false
}

// Depth returns the length of the longest upstream chain above id.
// It always terminates; see DepthWithCycle.
func (g *Graph) Depth(id string) int {
	d, _ := g.DepthWithCycle(id)
	return d
}

// DepthWithCycle returns the depth of id and whether a cycle was cut while
// computing it. A block without upstream blocks has depth 0. Otherwise the depth
// is 1 + the maximum depth of upstream blocks not already on the current path.
// When every upstream block is already on the path the branch counts as 0,
// which understates the (undefined) depth of cyclic blocks.
func (g *Graph) DepthWithCycle(id string) (int, bool) {
	return g.depth(id, nil)
}

func (g *Graph) depth(id string, visited *path) (int, bool) {
	if r, ok := g.depths[id]; ok {
		return r.depth, r.cut
	}

	onPath := visited.with(id)
	maxParent := -1
	cut := false

	for _, parentID := range g.parents[id] {
		if onPath.contains(parentID) {
			cut = true
			continue
		}
		d, parentCut := g.depth(parentID, onPath)
		if parentCut {
			cut = true
		}
		if d > maxParent {
			maxParent = d
		}
	}

	level := maxParent + 1

	// A block on no cycle never meets its own ancestors on the path, so its
	// result is the same for every caller. Only blocks inside a cycle depend
	// on the branch that reached them.
	if !g.cyclic[id] {
		g.depths[id] = depthResult{depth: level, cut: cut}
	}
	return level, cut
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	from := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.children[id] {
			if !visited[childID] {
				from[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = from[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Levels groups block uuids by depth. Unlike a topological layering it never
// fails: blocks on a cycle land on the level their cut branches allow.
func (g *Graph) Levels() [][]string {
	levels := [][]string{}
	for _, id := range g.order {
		d := g.Depth(id)
		for len(levels) <= d {
			levels = append(levels, []string{})
		}
		levels[d] = append(levels[d], id)
	}

	// Sort each level for deterministic output
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels
}

// GetRoots returns blocks with no declared upstream blocks.
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// GetLeaves returns blocks nothing depends on.
func (g *Graph) GetLeaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// GetMissing returns upstream uuids that are referenced but have no block.
func (g *Graph) GetMissing() []string {
	seen := make(map[string]bool)
	var missing []string
	for _, id := range g.order {
		for _, parentID := range g.parents[id] {
			if _, ok := g.nodes[parentID]; ok || seen[parentID] {
				continue
			}
			seen[parentID] = true
			missing = append(missing, parentID)
		}
	}
	sort.Strings(missing)
	return missing
}

// dedupe drops repeated ids, keeping first occurrences.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
