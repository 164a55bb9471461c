package tag

import (
	"sort"
	"time"
)

// Summary is derived display metadata for a property's tag set. It is always
// a pure function of the tags: RecomputeSummary is the only way it changes.
type Summary struct {
	// TotalTags is the number of tags in the aggregate.
	TotalTags int `json:"total_tags"`

	// Categories counts tags per category ID.
	Categories map[string]int `json:"categories"`

	// LastUpdated is when the tag set last changed.
	LastUpdated time.Time `json:"last_updated"`

	// Confidence is the mean confidence across all tags, 0 when empty.
	Confidence float64 `json:"confidence"`
}

// PropertyTags is the tag aggregate owned by a single property. Tags are
// unique by ID and unordered for storage; Sorted provides the deterministic
// confidence-descending view consumers render.
type PropertyTags struct {
	// PropertyID identifies the owning property.
	PropertyID string `json:"property_id"`

	// Tags holds the current tag set.
	Tags []Tag `json:"tags"`

	// Summary is derived from Tags; never edit it by hand.
	Summary Summary `json:"summary"`
}

// NewPropertyTags creates an aggregate for a property with the given tags and
// a freshly computed summary.
func NewPropertyTags(propertyID string, tags []Tag) *PropertyTags {
	pt := &PropertyTags{
		PropertyID: propertyID,
		Tags:       tags,
	}
	pt.RecomputeSummary()
	return pt
}

// RecomputeSummary rebuilds the derived summary from the current tag set.
// It must be called after every change to Tags.
func (pt *PropertyTags) RecomputeSummary() {
	categories := make(map[string]int)
	total := 0.0
	for _, t := range pt.Tags {
		categories[t.Category.String()]++
		total += t.Confidence
	}

	confidence := 0.0
	if len(pt.Tags) > 0 {
		confidence = total / float64(len(pt.Tags))
	}

	pt.Summary = Summary{
		TotalTags:   len(pt.Tags),
		Categories:  categories,
		LastUpdated: time.Now(),
		Confidence:  confidence,
	}
}

// Sorted returns the tags ordered by confidence descending. Ties keep their
// stored order so repeated calls are deterministic. The returned slice is a
// copy; the stored order is untouched.
func (pt *PropertyTags) Sorted() []Tag {
	sorted := make([]Tag, len(pt.Tags))
	copy(sorted, pt.Tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	return sorted
}

// Find returns the tag with the given ID and whether it exists.
func (pt *PropertyTags) Find(tagID string) (Tag, bool) {
	for _, t := range pt.Tags {
		if t.ID == tagID {
			return t, true
		}
	}
	return Tag{}, false
}

// Clone creates a deep copy of the aggregate, including tag metadata.
func (pt *PropertyTags) Clone() *PropertyTags {
	clone := &PropertyTags{
		PropertyID: pt.PropertyID,
		Tags:       make([]Tag, len(pt.Tags)),
		Summary:    pt.Summary,
	}
	for i, t := range pt.Tags {
		clone.Tags[i] = t.Clone()
	}
	if pt.Summary.Categories != nil {
		clone.Summary.Categories = make(map[string]int, len(pt.Summary.Categories))
		for k, v := range pt.Summary.Categories {
			clone.Summary.Categories[k] = v
		}
	}
	return clone
}
