package layout

import (
	"fmt"

	"github.com/leapstack-labs/blockgraph/pkg/core"
)

const groupPrefix = "parent-"

// GroupID is the id of the group node collecting the leaves of upstream.
func GroupID(upstream string) string {
	return groupPrefix + upstream
}

// groupSiblings collapses leaf blocks that share their single upstream block
// into one group node per upstream. Candidates declare exactly one upstream
// block and have no dependents; a bucket needs at least two of them. A bucket
// whose group id is already a block uuid stays ungrouped.
func (a *assembly) groupSiblings() {
	buckets := make(map[string][]string)
	var order []string

	for _, id := range a.graph.IDs() {
		parents := a.graph.GetParents(id)
		if len(parents) != 1 || len(a.downstreamIDs(id)) != 0 {
			continue
		}
		up := parents[0]
		if _, seen := buckets[up]; !seen {
			order = append(order, up)
		}
		buckets[up] = append(buckets[up], id)
	}

	for _, up := range order {
		if _, taken := a.nodeByID[GroupID(up)]; taken {
			continue
		}
		if members := buckets[up]; len(members) >= 2 {
			a.collapse(up, members)
		}
	}
}

// collapse rewrites upstream -> member edges into a single upstream -> group edge.
func (a *assembly) collapse(upstream string, memberIDs []string) {
	groupID := GroupID(upstream)

	isMember := make(map[string]bool, len(memberIDs))
	members := make([]*Node, 0, len(memberIDs))
	children := make([]*core.Block, 0, len(memberIDs))
	southPorts := make([]string, 0, len(memberIDs))

	for _, id := range memberIDs {
		node := a.nodeByID[id]
		node.Parent = groupID
		a.ports[id].remove(NorthPortID(upstream, id))

		isMember[id] = true
		members = append(members, node)
		children = append(children, node.Block)
		southPorts = append(southPorts, SouthPortID(upstream, id))
	}

	// The group edge takes the place of the first member edge
	groupEdge := edgeBetween(upstream, groupID)
	edges := make([]Edge, 0, len(a.edges)-len(memberIDs)+1)
	placed := false
	for _, e := range a.edges {
		if e.From == upstream && isMember[e.To] {
			if !placed {
				edges = append(edges, groupEdge)
				placed = true
			}
			continue
		}
		edges = append(edges, e)
	}
	a.edges = edges

	if ps, ok := a.ports[upstream]; ok {
		ps.replace(southPorts, groupEdge.FromPort, SideSouth)
	}

	groupPorts := newPortSet()
	groupPorts.add(groupEdge.ToPort, SideNorth)
	a.ports[groupID] = groupPorts

	width, height := a.sizer.GroupSize(members)
	group := &Node{
		ID:          groupID,
		Kind:        NodeKindGroup,
		Children:    children,
		Width:       width,
		Height:      height,
		Level:       members[0].Level,
		DisplayText: fmt.Sprintf("%d blocks", len(children)),
		Border:      a.colorizer.groupBorder(children),
	}
	a.insertBefore(memberIDs[0], group)
}

// insertBefore places node ahead of the node with the given id so that group
// nodes precede their members.
func (a *assembly) insertBefore(id string, node *Node) {
	at := len(a.nodes)
	for i, n := range a.nodes {
		if n.ID == id {
			at = i
			break
		}
	}
	a.nodes = append(a.nodes[:at], append([]*Node{node}, a.nodes[at:]...)...)
	a.nodeByID[node.ID] = node
}
