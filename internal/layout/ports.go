package layout

import "strings"

// Port id markers.
const (
	markerTo   = "to"
	markerFrom = "from"

	addUpstreamSuffix   = "add-upstream"
	addDownstreamSuffix = "add-downstream"
)

// PortID joins non-empty parts into a port id.
func PortID(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}

// EdgeID is the id of the edge from upstream to downstream.
func EdgeID(upstream, downstream string) string {
	return upstream + "-" + downstream
}

// NorthPortID is the port on id receiving the edge from upstream.
// An empty upstream yields the node's default NORTH port.
func NorthPortID(upstream, id string) string {
	return PortID(upstream, id, markerTo)
}

// SouthPortID is the port on id emitting the edge to downstream.
// An empty downstream yields the node's default SOUTH port.
func SouthPortID(id, downstream string) string {
	return PortID(id, downstream, markerFrom)
}

// AddUpstreamPortID is the drag handle for creating a new upstream dependency.
func AddUpstreamPortID(id string) string {
	return PortID(id, addUpstreamSuffix)
}

// AddDownstreamPortID is the drag handle for creating a new dependent.
func AddDownstreamPortID(id string) string {
	return PortID(id, addDownstreamSuffix)
}

// edgeBetween builds the edge and port references for upstream -> downstream.
func edgeBetween(upstream, downstream string) Edge {
	return Edge{
		ID:       EdgeID(upstream, downstream),
		From:     upstream,
		To:       downstream,
		FromPort: SouthPortID(upstream, downstream),
		ToPort:   NorthPortID(upstream, downstream),
	}
}

// portSet keeps a node's ports unique by id, in insertion order.
type portSet struct {
	order []string
	ports map[string]Port
}

func newPortSet() *portSet {
	return &portSet{ports: make(map[string]Port)}
}

func (ps *portSet) add(id string, side Side) {
	if _, exists := ps.ports[id]; exists {
		return
	}
	ps.order = append(ps.order, id)
	ps.ports[id] = Port{ID: id, Side: side}
}

func (ps *portSet) remove(id string) {
	if _, exists := ps.ports[id]; !exists {
		return
	}
	delete(ps.ports, id)
	for i, existing := range ps.order {
		if existing == id {
			ps.order = append(ps.order[:i], ps.order[i+1:]...)
			break
		}
	}
}

func (ps *portSet) has(id string) bool {
	_, ok := ps.ports[id]
	return ok
}

// sized returns the ports in order, all at the given size.
func (ps *portSet) sized(size float64) ([]Port, map[string]Port) {
	list := make([]Port, 0, len(ps.order))
	byID := make(map[string]Port, len(ps.order))
	for _, id := range ps.order {
		p := ps.ports[id]
		p.Width = size
		p.Height = size
		list = append(list, p)
		byID[id] = p
	}
	return list, byID
}

// blockPorts synthesizes one NORTH port per upstream and one SOUTH port per
// downstream block, falling back to a default port on an empty side, plus
// the two drag handles every block carries.
func blockPorts(id string, upstream, downstream []string) *portSet {
	ps := newPortSet()

	if len(upstream) == 0 {
		ps.add(NorthPortID("", id), SideNorth)
	}
	for _, up := range upstream {
		ps.add(NorthPortID(up, id), SideNorth)
	}
	ps.add(AddUpstreamPortID(id), SideNorth)

	if len(downstream) == 0 {
		ps.add(SouthPortID(id, ""), SideSouth)
	}
	for _, down := range downstream {
		ps.add(SouthPortID(id, down), SideSouth)
	}
	ps.add(AddDownstreamPortID(id), SideSouth)

	return ps
}

// replace swaps the ports in old for a single port, placed where the first
// of them was. The new port is appended when none of old is present.
func (ps *portSet) replace(old []string, id string, side Side) {
	at := -1
	for i, existing := range ps.order {
		if contains(old, existing) {
			at = i
			break
		}
	}
	for _, o := range old {
		ps.remove(o)
	}
	if at < 0 || at > len(ps.order) {
		ps.add(id, side)
		return
	}
	if ps.has(id) {
		return
	}
	ps.order = append(ps.order[:at], append([]string{id}, ps.order[at:]...)...)
	ps.ports[id] = Port{ID: id, Side: side}
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
