package tag

import (
	"fmt"
	"strings"
	"time"

	"github.com/propsight/tagging/category"
)

// Filter represents criteria for searching tags across properties.
// Zero-valued fields are ignored; set fields must all match (logical AND).
type Filter struct {
	// Categories filters by one or more categories.
	Categories []category.Category `json:"categories,omitempty"`

	// Value filters by case-insensitive substring match on the tag value.
	Value string `json:"value,omitempty"`

	// Sources filters by one or more tag sources.
	Sources []Source `json:"sources,omitempty"`

	// MinConfidence filters tags with confidence >= this value.
	MinConfidence float64 `json:"min_confidence,omitempty"`

	// MaxConfidence filters tags with confidence <= this value.
	// Zero means no upper bound.
	MaxConfidence float64 `json:"max_confidence,omitempty"`

	// After filters tags created after this time.
	After time.Time `json:"after,omitempty"`

	// Before filters tags created before this time.
	Before time.Time `json:"before,omitempty"`
}

// Matches returns true if the given tag matches all filter criteria.
func (f *Filter) Matches(t Tag) bool {
	if len(f.Categories) > 0 {
		matched := false
		for _, c := range f.Categories {
			if t.Category == c {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.Value != "" && !strings.Contains(strings.ToLower(t.Value), strings.ToLower(f.Value)) {
		return false
	}

	if len(f.Sources) > 0 {
		matched := false
		for _, s := range f.Sources {
			if t.Source == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MinConfidence > 0 && t.Confidence < f.MinConfidence {
		return false
	}
	if f.MaxConfidence > 0 && t.Confidence > f.MaxConfidence {
		return false
	}

	if !f.After.IsZero() && t.Timestamp.Before(f.After) {
		return false
	}
	if !f.Before.IsZero() && t.Timestamp.After(f.Before) {
		return false
	}

	return true
}

// Narrow returns a copy of the aggregate containing only the tags that match
// the filter, with a recomputed summary. Returns nil when nothing matches.
func (f *Filter) Narrow(pt *PropertyTags) *PropertyTags {
	var matched []Tag
	for _, t := range pt.Tags {
		if f.Matches(t) {
			matched = append(matched, t.Clone())
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return NewPropertyTags(pt.PropertyID, matched)
}

// Validate checks if the filter configuration is valid.
func (f *Filter) Validate() error {
	for _, c := range f.Categories {
		if !c.IsValid() {
			return fmt.Errorf("invalid category in filter: %s", c)
		}
	}
	for _, s := range f.Sources {
		if !s.IsValid() {
			return fmt.Errorf("invalid source in filter: %s", s)
		}
	}
	if f.MinConfidence < 0 {
		return fmt.Errorf("min_confidence cannot be negative")
	}
	if f.MaxConfidence > 0 && f.MinConfidence > f.MaxConfidence {
		return fmt.Errorf("min_confidence must not exceed max_confidence")
	}
	if !f.After.IsZero() && !f.Before.IsZero() && f.After.After(f.Before) {
		return fmt.Errorf("after must be before before")
	}
	return nil
}
