// Package itinerary derives read-only views from the graph: the
// date-ordered schedule, the budget breakdown and per-leg distance
// labels. Views are computed on demand from a store snapshot and never
// mutate the graph.
package itinerary

import (
	"math"
	"sort"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/store"
)

// Service computes aggregate views over the graph store
type Service struct {
	store *store.GraphStore
}

// NewService creates an itinerary service over the given store
func NewService(s *store.GraphStore) *Service {
	return &Service{store: s}
}

// Entry is one schedule row
type Entry struct {
	NodeID  string          `json:"node_id"`
	Date    string          `json:"date"`
	Title   string          `json:"title"`
	Type    domain.NodeType `json:"type"`
	Cost    string          `json:"cost"`
	Weather string          `json:"weather"`
}

// Budget is the per-kind cost breakdown. Total always equals the sum of
// the four buckets.
type Budget struct {
	Location  float64 `json:"location"`
	Transport float64 `json:"transport"`
	Stay      float64 `json:"stay"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

// Leg is a rendered connection with its cosmetic distance label
type Leg struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	FromTitle  string  `json:"from_title"`
	ToTitle    string  `json:"to_title"`
	DistanceKm float64 `json:"distance_km"`
}

// Schedule returns the board's entries in date order. Entries without a
// date sort after all dated ones; ties keep board order.
func (s *Service) Schedule() []Entry {
	snapshot := s.store.Snapshot()

	entries := make([]Entry, 0, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		entries = append(entries, Entry{
			NodeID:  n.ID,
			Date:    n.Date,
			Title:   n.Title,
			Type:    n.Type,
			Cost:    n.Cost,
			Weather: domain.WeatherIcons[domain.NormalizeWeather(n.Weather)],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Date, entries[j].Date
		if (a == "") != (b == "") {
			return a != ""
		}
		return a < b
	})
	return entries
}

// Budget sums lenient costs into per-kind buckets
func (s *Service) Budget() Budget {
	snapshot := s.store.Snapshot()

	var b Budget
	for _, n := range snapshot.Nodes {
		cost := n.CostValue()
		switch n.Type {
		case domain.TypeLocation:
			b.Location += cost
		case domain.TypeTransport:
			b.Transport += cost
		case domain.TypeStay:
			b.Stay += cost
		default:
			b.Other += cost
		}
	}
	b.Total = b.Location + b.Transport + b.Stay + b.Other
	return b
}

// Legs returns every renderable connection with a distance label derived
// from canvas geometry. The figure is cosmetic: canvas units scaled down,
// not geography.
func (s *Service) Legs() []Leg {
	snapshot := s.store.Snapshot()

	legs := make([]Leg, 0, len(snapshot.Connections))
	for _, c := range snapshot.RenderableConnections() {
		from := snapshot.Node(c.From)
		to := snapshot.Node(c.To)
		legs = append(legs, Leg{
			From:       c.From,
			To:         c.To,
			FromTitle:  from.Title,
			ToTitle:    to.Title,
			DistanceKm: math.Round(math.Hypot(to.X-from.X, to.Y-from.Y) / 10),
		})
	}
	return legs
}
