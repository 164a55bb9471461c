// Package tag defines the property tag data model: individual tags, the
// per-property aggregate with its derived summary, search filters, and
// JSON/CSV import and export.
package tag

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/propsight/tagging/category"
)

// Source represents the provenance of a tag.
type Source string

const (
	// SourceAIAnalysis indicates the tag was derived directly from a vision
	// analysis result.
	SourceAIAnalysis Source = "ai_analysis"

	// SourceManual indicates the tag was entered by a user.
	SourceManual Source = "manual"

	// SourceInferred indicates the tag was inferred from other tags or data.
	SourceInferred Source = "inferred"

	// SourceCalculated indicates the tag was produced by a tagging rule or a
	// derived computation (e.g. market comparison).
	SourceCalculated Source = "calculated"
)

// IsValid returns true if the source is valid.
func (s Source) IsValid() bool {
	switch s {
	case SourceAIAnalysis, SourceManual, SourceInferred, SourceCalculated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source.
func (s Source) String() string {
	return string(s)
}

// ParseSource parses a string into a Source value.
// Returns an error if the string is not a valid source.
func ParseSource(s string) (Source, error) {
	source := Source(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid tag source: %s", s)
	}
	return source, nil
}

// AllSources returns all valid tag sources.
func AllSources() []Source {
	return []Source{
		SourceAIAnalysis,
		SourceManual,
		SourceInferred,
		SourceCalculated,
	}
}

// Tag is a single categorized, confidence-scored classification fact about a
// property. Tags are immutable once created: updates replace the tag rather
// than mutating fields in place, preserving audit history.
type Tag struct {
	// ID is a unique identifier for this tag instance.
	ID string `json:"id"`

	// Category is the grouping this tag belongs to.
	Category category.Category `json:"category"`

	// Value is the free-text label (e.g. "Condition: good").
	Value string `json:"value"`

	// Confidence represents the confidence level (0.0 to 1.0) in the tag.
	Confidence float64 `json:"confidence"`

	// Source records where the tag came from.
	Source Source `json:"source"`

	// Metadata carries opaque context for downstream consumers, such as
	// bounding-box coordinates, cost estimates, or the firing rule's ID.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Timestamp is the creation instant of the tag.
	Timestamp time.Time `json:"timestamp"`
}

// New creates a tag with a generated ID and the current timestamp.
func New(cat category.Category, value string, confidence float64, source Source) Tag {
	return Tag{
		ID:         uuid.New().String(),
		Category:   cat,
		Value:      value,
		Confidence: confidence,
		Source:     source,
		Timestamp:  time.Now(),
	}
}

// Validate checks if the tag has all required fields and valid values.
func (t Tag) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tag ID is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", t.Category)
	}
	if t.Value == "" {
		return fmt.Errorf("tag value is required")
	}
	if t.Confidence < 0.0 || t.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", t.Confidence)
	}
	if !t.Source.IsValid() {
		return fmt.Errorf("invalid tag source: %s", t.Source)
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// GetMetadata retrieves a metadata value by key, returning the value and
// whether it was found.
func (t Tag) GetMetadata(key string) (any, bool) {
	if t.Metadata == nil {
		return nil, false
	}
	val, ok := t.Metadata[key]
	return val, ok
}

// WithMetadata returns a copy of the tag with the given metadata entry set.
// The receiver is unchanged, keeping tags immutable by convention.
func (t Tag) WithMetadata(key string, value any) Tag {
	clone := t.Clone()
	if clone.Metadata == nil {
		clone.Metadata = make(map[string]any)
	}
	clone.Metadata[key] = value
	return clone
}

// Clone creates a deep copy of the tag.
func (t Tag) Clone() Tag {
	clone := t
	if t.Metadata != nil {
		clone.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			clone.Metadata[k] = cloneValue(v)
		}
	}
	return clone
}

// cloneValue creates a deep copy of a value using JSON marshaling.
// This works for any JSON-serializable value.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var clone any
	if err := json.Unmarshal(data, &clone); err != nil {
		return v
	}
	return clone
}
