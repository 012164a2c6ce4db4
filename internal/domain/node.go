// Package domain defines the core records of the trip board: nodes,
// connections and the AI endpoint configuration. All records are fully
// sanitized at ingestion boundaries so downstream code can assume
// well-formedness.
package domain

import (
	"regexp"
	"strconv"
	"time"
)

// NodeType is the closed set of itinerary entry kinds
type NodeType string

const (
	TypeLocation  NodeType = "location"
	TypeTransport NodeType = "transport"
	TypeStay      NodeType = "stay"
	TypeNote      NodeType = "note"
)

// WeatherIcons is the fixed icon table indexed by Node.Weather
var WeatherIcons = [3]string{"sunny", "cloudy", "rainy"}

// Node represents a single itinerary entry placed on the canvas
type Node struct {
	ID      string   `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Type    NodeType `json:"type"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Date    string   `json:"date"`
	Cost    string   `json:"cost"`
	Weather int      `json:"weather"`
	Image   string   `json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodePatch carries a partial update; nil fields are left untouched
type NodePatch struct {
	X       *float64
	Y       *float64
	Type    *NodeType
	Title   *string
	Content *string
	Date    *string
	Cost    *string
	Weather *int
	Image   *string
}

// NormalizeType maps arbitrary type strings onto the closed NodeType set.
// Unknown or empty values become TypeNote.
func NormalizeType(s string) NodeType {
	switch NodeType(s) {
	case TypeLocation, TypeTransport, TypeStay, TypeNote:
		return NodeType(s)
	default:
		return TypeNote
	}
}

// NormalizeWeather clamps a weather index into the icon table range.
// Out-of-range values fall back to 0.
func NormalizeWeather(w int) int {
	if w < 0 || w >= len(WeatherIcons) {
		return 0
	}
	return w
}

var costPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseCost extracts a numeric amount from a free-text cost string.
// The first numeric substring wins; garbled or empty input yields 0.
func ParseCost(s string) float64 {
	match := costPattern.FindString(s)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

// Sanitize normalizes a node loaded from persistence or built from an AI
// response so that every field holds a safe value.
func (n *Node) Sanitize() {
	n.Type = NormalizeType(string(n.Type))
	n.Weather = NormalizeWeather(n.Weather)
}

// CostValue returns the node's lenient numeric cost
func (n *Node) CostValue() float64 {
	return ParseCost(n.Cost)
}

// Apply merges a partial patch into the node
func (n *Node) Apply(patch NodePatch) {
	if patch.X != nil {
		n.X = *patch.X
	}
	if patch.Y != nil {
		n.Y = *patch.Y
	}
	if patch.Type != nil {
		n.Type = NormalizeType(string(*patch.Type))
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Date != nil {
		n.Date = *patch.Date
	}
	if patch.Cost != nil {
		n.Cost = *patch.Cost
	}
	if patch.Weather != nil {
		n.Weather = NormalizeWeather(*patch.Weather)
	}
	if patch.Image != nil {
		n.Image = *patch.Image
	}
	n.UpdatedAt = time.Now()
}
