package domain

// Graph is an immutable snapshot of the board's collections, handed to
// renderers and projections. Consumers never mutate it.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Node returns the snapshot node with the given id, or nil
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasNode reports whether the snapshot contains the given node id
func (g *Graph) HasNode(id string) bool {
	return g.Node(id) != nil
}

// RenderableConnections filters out dangling edges whose endpoints no
// longer exist. Dangling edges are excluded, never an error.
func (g *Graph) RenderableConnections() []Connection {
	out := make([]Connection, 0, len(g.Connections))
	for _, c := range g.Connections {
		if g.HasNode(c.From) && g.HasNode(c.To) {
			out = append(out, c)
		}
	}
	return out
}
