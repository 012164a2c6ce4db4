package domain

// Connection is an undirected link between two nodes representing
// itinerary sequencing. From/To record creation order only.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Touches reports whether the connection references the given node id
func (c Connection) Touches(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}

// Links reports whether the connection joins the unordered pair {a, b}
func (c Connection) Links(a, b string) bool {
	return (c.From == a && c.To == b) || (c.From == b && c.To == a)
}
