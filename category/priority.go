package category

import "fmt"

// Priority represents the display priority of a category or rule.
type Priority string

const (
	// PriorityHigh indicates tags that should surface first in consumer UIs.
	PriorityHigh Priority = "high"

	// PriorityMedium indicates normal display priority.
	PriorityMedium Priority = "medium"

	// PriorityLow indicates tags that can be collapsed or shown last.
	PriorityLow Priority = "low"
)

// priorityWeights maps priorities to numeric weights for comparison.
// Higher weights sort first.
var priorityWeights = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// IsValid returns true if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Weight returns the numeric weight associated with the priority.
// Returns 0 for invalid priorities.
func (p Priority) Weight() int {
	if weight, ok := priorityWeights[p]; ok {
		return weight
	}
	return 0
}

// Compare compares two priorities.
// Returns:
//   - negative if p1 < p2
//   - zero if p1 == p2
//   - positive if p1 > p2
func Compare(p1, p2 Priority) int {
	return p1.Weight() - p2.Weight()
}

// ParsePriority parses a string into a Priority value.
// Returns an error if the string is not a valid priority.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return priority, nil
}

// AllPriorities returns all valid priorities in order from high to low.
func AllPriorities() []Priority {
	return []Priority{
		PriorityHigh,
		PriorityMedium,
		PriorityLow,
	}
}
