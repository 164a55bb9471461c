package engine

import (
	"sort"

	"github.com/propsight/tagging/tag"
)

// Default aggregation limits.
const (
	DefaultConfidenceThreshold = 0.6
	DefaultMaxTagsPerCategory  = 10
)

// Options bounds what survives aggregation.
type Options struct {
	// ConfidenceThreshold is the minimum confidence a tag must carry.
	ConfidenceThreshold float64

	// MaxTagsPerCategory caps how many tags any one category retains.
	MaxTagsPerCategory int
}

// DefaultOptions returns the standard aggregation limits.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MaxTagsPerCategory:  DefaultMaxTagsPerCategory,
	}
}

// mergeKey identifies a tag for deduplication.
type mergeKey struct {
	category string
	value    string
}

// Aggregate merges candidate tags from the existing set, the synthesizer, and
// the rule engine into the final tag set for a property:
//
//  1. Merge: at most one tag survives per (category, value) pair; on
//     collision the higher-confidence copy wins, ties keep the first seen.
//  2. Confidence filter: tags below the threshold are dropped.
//  3. Per-category cap: surviving tags are walked in confidence-descending
//     order and retained while their category's running count is under the
//     cap. The selection is greedy highest-confidence-first, not a
//     proportional allocation: an over-represented category loses its
//     lower-confidence tags outright even when other categories have room.
//
// The result is ordered by confidence descending. Aggregation is idempotent:
// re-running it on its own output changes nothing.
func Aggregate(existing, synthesized, ruleTags []tag.Tag, opts Options) []tag.Tag {
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.MaxTagsPerCategory == 0 {
		opts.MaxTagsPerCategory = DefaultMaxTagsPerCategory
	}

	// Merge, preserving first-seen order so ties stay deterministic.
	merged := make(map[mergeKey]tag.Tag)
	var order []mergeKey
	for _, candidates := range [][]tag.Tag{existing, synthesized, ruleTags} {
		for _, t := range candidates {
			key := mergeKey{category: t.Category.String(), value: t.Value}
			current, seen := merged[key]
			if !seen {
				merged[key] = t
				order = append(order, key)
				continue
			}
			if t.Confidence > current.Confidence {
				merged[key] = t
			}
		}
	}

	filtered := make([]tag.Tag, 0, len(order))
	for _, key := range order {
		if t := merged[key]; t.Confidence >= opts.ConfidenceThreshold {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})

	counts := make(map[string]int)
	capped := make([]tag.Tag, 0, len(filtered))
	for _, t := range filtered {
		if counts[t.Category.String()] >= opts.MaxTagsPerCategory {
			continue
		}
		counts[t.Category.String()]++
		capped = append(capped, t)
	}

	return capped
}
