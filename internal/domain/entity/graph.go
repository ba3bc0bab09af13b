package entity

import "time"

// GraphRange selects the time window of a token price graph.
type GraphRange string

const (
	GraphRangeMax      GraphRange = "max"
	GraphRange1Day     GraphRange = "1d"
	GraphRange4Hours   GraphRange = "4h"
	DefaultGraphRange             = GraphRangeMax
)

// GraphRanges lists every range accepted by the backend.
var GraphRanges = []GraphRange{GraphRangeMax, GraphRange1Day, GraphRange4Hours}

// Valid reports whether r is one of the known ranges.
func (r GraphRange) Valid() bool {
	for _, known := range GraphRanges {
		if r == known {
			return true
		}
	}
	return false
}

// GraphPoint is a single sample of a token price series.
type GraphPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// GraphStats summarizes the server-side graph population jobs.
type GraphStats struct {
	TotalTokens int64     `json:"totalTokens"`
	ActiveCrons int64     `json:"activeCrons"`
	TotalPoints int64     `json:"totalPoints"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

// ActionResult is the outcome of an administrative command.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
