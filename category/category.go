// Package category defines the static catalog of property tag categories.
// Categories are fixed at compile time: they carry display metadata (name,
// description, color, icon) and a default priority used by consumers for
// rendering and ordering. Categories are never created or destroyed at runtime.
package category

import "fmt"

// Category represents the grouping a property tag belongs to.
type Category string

const (
	// CategoryCondition groups tags describing the overall state of a property.
	// Examples: "Condition: good", "Critical Condition"
	CategoryCondition Category = "condition"

	// CategoryFeatures groups tags for detected amenities and attributes.
	// Examples: "hardwood floors", "granite countertops"
	CategoryFeatures Category = "features"

	// CategoryIssues groups tags for detected problems and needed repairs.
	// Examples: "roof damage (high)", "peeling paint (low)"
	CategoryIssues Category = "issues"

	// CategoryLocation groups tags derived from geographic context.
	// Examples: "near transit", "flood zone"
	CategoryLocation Category = "location"

	// CategoryMarket groups tags derived from market comparison data.
	// Examples: "Market: hot", "underpriced"
	CategoryMarket Category = "market"

	// CategorySeasonal groups tags that only apply during part of the year.
	// Examples: "pool season", "winterization due"
	CategorySeasonal Category = "seasonal"
)

// IsValid returns true if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCondition,
		CategoryFeatures,
		CategoryIssues,
		CategoryLocation,
		CategoryMarket,
		CategorySeasonal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// DisplayName returns a human-readable display name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCondition:
		return "Property Condition"
	case CategoryFeatures:
		return "Features & Amenities"
	case CategoryIssues:
		return "Issues & Repairs"
	case CategoryLocation:
		return "Location"
	case CategoryMarket:
		return "Market Position"
	case CategorySeasonal:
		return "Seasonal"
	default:
		return string(c)
	}
}

// Description returns a brief description of the category.
func (c Category) Description() string {
	switch c {
	case CategoryCondition:
		return "Overall physical state and maintenance level of the property"
	case CategoryFeatures:
		return "Detected amenities, finishes, and property attributes"
	case CategoryIssues:
		return "Detected problems, damage, and required repairs"
	case CategoryLocation:
		return "Tags derived from the property's geographic context"
	case CategoryMarket:
		return "Position relative to comparable properties and market trends"
	case CategorySeasonal:
		return "Time-bound attributes that apply during part of the year"
	default:
		return ""
	}
}

// Color returns the hex display color used when rendering tags of this category.
func (c Category) Color() string {
	switch c {
	case CategoryCondition:
		return "#ef4444"
	case CategoryFeatures:
		return "#3b82f6"
	case CategoryIssues:
		return "#f59e0b"
	case CategoryLocation:
		return "#10b981"
	case CategoryMarket:
		return "#8b5cf6"
	case CategorySeasonal:
		return "#06b6d4"
	default:
		return "#6b7280"
	}
}

// Icon returns the icon name used when rendering tags of this category.
func (c Category) Icon() string {
	switch c {
	case CategoryCondition:
		return "build"
	case CategoryFeatures:
		return "star"
	case CategoryIssues:
		return "report"
	case CategoryLocation:
		return "place"
	case CategoryMarket:
		return "trending_up"
	case CategorySeasonal:
		return "wb_sunny"
	default:
		return "label"
	}
}

// DefaultPriority returns the display priority associated with the category.
func (c Category) DefaultPriority() Priority {
	switch c {
	case CategoryCondition, CategoryIssues:
		return PriorityHigh
	case CategoryFeatures, CategoryMarket:
		return PriorityMedium
	case CategoryLocation, CategorySeasonal:
		return PriorityLow
	default:
		return PriorityLow
	}
}

// Parse parses a string into a Category value.
// Returns an error if the string is not a valid category.
func Parse(s string) (Category, error) {
	category := Category(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return category, nil
}

// All returns all valid categories.
func All() []Category {
	return []Category{
		CategoryCondition,
		CategoryFeatures,
		CategoryIssues,
		CategoryLocation,
		CategoryMarket,
		CategorySeasonal,
	}
}
