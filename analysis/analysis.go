// Package analysis defines the boundary types for property analysis results
// consumed by the tagging engine. The engine treats an analysis result as an
// opaque input record: how it was produced (vision model, manual entry, or a
// mock) is outside the engine's contract, so a real model integration can be
// substituted without touching the tagging core.
//
// Field names on the wire follow the upstream analysis service's camelCase
// contract; condition dot-paths in tagging rules resolve against that shape.
package analysis

import "encoding/json"

// Result is the structured output of a property analysis run.
// All fields are optional; the tag synthesizer only maps fields that are set.
type Result struct {
	// PropertyType is the detected type of property (e.g. "apartment", "house").
	PropertyType string `json:"propertyType,omitempty"`

	// Condition is the overall assessed condition
	// (e.g. "excellent", "good", "fair", "poor", "critical").
	Condition string `json:"condition,omitempty"`

	// Confidence is the overall confidence (0.0 to 1.0) of the analysis run.
	Confidence float64 `json:"confidence,omitempty"`

	// Features lists individual detected features and amenities.
	Features []Feature `json:"features,omitempty"`

	// Issues lists detected problems and required repairs.
	Issues []Issue `json:"issues,omitempty"`

	// Market holds the comparison against similar properties, when available.
	Market *MarketComparison `json:"marketComparison,omitempty"`
}

// Feature is a single detected property feature.
type Feature struct {
	// Type names the feature (e.g. "hardwood floors").
	Type string `json:"type"`

	// Condition is the assessed condition of this feature.
	Condition string `json:"condition,omitempty"`

	// Confidence is the detection confidence (0.0 to 1.0).
	// Zero means the producer did not report one; the synthesizer applies its
	// default in that case.
	Confidence float64 `json:"confidence,omitempty"`

	// Coordinates is the bounding box of the detection, when available.
	Coordinates *Box `json:"coordinates,omitempty"`
}

// Box is a detection bounding box in image coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Issue is a single detected problem.
type Issue struct {
	// Title is a short summary of the issue (e.g. "roof damage").
	Title string `json:"title"`

	// Severity grades the issue (e.g. "low", "medium", "high", "critical").
	Severity string `json:"severity"`

	// EstimatedCost is the estimated repair cost, when available.
	EstimatedCost float64 `json:"estimatedCost,omitempty"`

	// Priority is the recommended handling priority.
	Priority string `json:"priority,omitempty"`
}

// MarketComparison holds market positioning data for a property.
type MarketComparison struct {
	// MarketTrend describes the local market (e.g. "hot", "rising", "cooling").
	MarketTrend string `json:"marketTrend"`

	// Confidence is the confidence (0.0 to 1.0) of the comparison.
	// Zero means the producer did not report one.
	Confidence float64 `json:"confidence,omitempty"`
}

// Record projects the result onto a generic map for condition evaluation.
// Keys match the JSON wire names, so rule dot-paths like
// "marketComparison.marketTrend" resolve naturally. The projection is a deep
// copy; mutating the returned map does not affect the result.
func (r Result) Record() map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return map[string]any{}
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return map[string]any{}
	}
	return record
}
