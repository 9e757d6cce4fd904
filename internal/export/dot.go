// Package export renders assembled graphs in formats other tools consume.
package export

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/leapstack-labs/blockgraph/internal/layout"
)

// DOT renders g as a Graphviz digraph named name. Group nodes become clusters
// holding their members; edges into a group point at its first member and
// are clipped at the cluster border. Edges from absent nodes are skipped.
func DOT(g *layout.Graph, name string) (string, error) {
	if name == "" {
		name = "pipeline"
	}

	out := gographviz.NewGraph()
	if err := out.SetName(quote(name)); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}
	for _, attr := range [][2]string{{"rankdir", "TB"}, {"compound", "true"}} {
		if err := out.AddAttr(out.Name, attr[0], attr[1]); err != nil {
			return "", fmt.Errorf("graph attribute %s: %w", attr[0], err)
		}
	}

	groups := make(map[string]*layout.Node)
	for _, n := range g.Nodes {
		if n.Kind != layout.NodeKindGroup {
			continue
		}
		groups[n.ID] = n
		attrs := map[string]string{
			"label": quote(n.DisplayText),
			"color": quote(n.Border.Colors[0]),
			"style": quote("rounded"),
		}
		if err := out.AddSubGraph(out.Name, clusterName(n.ID), attrs); err != nil {
			return "", fmt.Errorf("group %s: %w", n.ID, err)
		}
	}

	for _, n := range g.Nodes {
		if n.Kind != layout.NodeKindBlock {
			continue
		}
		parent := out.Name
		if n.Parent != "" {
			if _, ok := groups[n.Parent]; ok {
				parent = clusterName(n.Parent)
			}
		}
		if err := out.AddNode(parent, quote(n.ID), nodeAttrs(n)); err != nil {
			return "", fmt.Errorf("node %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges {
		from, ok := g.Node(e.From)
		if !ok || from.Kind == layout.NodeKindGroup {
			continue
		}

		to := e.To
		attrs := map[string]string{}
		if group, ok := groups[e.To]; ok {
			if len(group.Children) == 0 {
				continue
			}
			to = group.Children[0].UUID
			attrs["lhead"] = clusterName(group.ID)
		} else if _, ok := g.Node(e.To); !ok {
			continue
		}

		if err := out.AddEdge(quote(e.From), quote(to), true, attrs); err != nil {
			return "", fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}

	return out.String(), nil
}

func nodeAttrs(n *layout.Node) map[string]string {
	label := escape(n.DisplayText)
	if n.Subtitle != "" {
		label += `\n` + escape(n.Subtitle)
	}

	style := "rounded"
	if n.Border.Style == layout.BorderDashed {
		style = "rounded,dashed"
	}

	attrs := map[string]string{
		"shape":    "box",
		"label":    `"` + label + `"`,
		"style":    quote(style),
		"penwidth": "2",
	}
	if c := n.Border.Colors[0]; c != "" {
		attrs["color"] = quote(c)
	}
	if len(n.Tags) > 0 {
		attrs["tooltip"] = quote(layout.TagsText(n.Tags))
	}
	return attrs
}

func clusterName(groupID string) string {
	return quote("cluster_" + groupID)
}

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + escape(s) + `"`
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
