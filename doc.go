// Package tagging provides the automated property-tagging engine for the
// PropSight platform.
//
// The engine turns a property analysis result (structured output from an
// upstream vision/analysis service) into a set of categorized,
// confidence-scored tags. It applies a declarative rule set, merges and
// deduplicates candidate tags, enforces per-category limits, and persists the
// resulting tag sets to a durable key-value medium.
//
// # Core Concepts
//
// The engine is organized around several key concepts:
//
//   - Categories: A fixed catalog of tag groupings (condition, features,
//     issues, location, market, seasonal) with display metadata
//   - Tags: Individual classification facts about a property, each carrying a
//     confidence score and a provenance source
//   - Rules: Declarative condition→action policies that derive additional tags
//     and notifications beyond direct field mapping
//   - Aggregation: The merge + filter + cap pipeline that turns raw candidate
//     tags into the stored tag set for a property
//   - Store: The per-property cache of tag aggregates with search, update,
//     import/export, and write-through persistence
//
// # Architecture
//
// Packages are layered leaves-first:
//
//   - category: static tag category registry
//   - analysis: boundary types for upstream analysis results
//   - tag: tag and aggregate data model, filtering, import/export
//   - rule: condition evaluation and the rule engine
//   - engine: tag synthesis and aggregation
//   - store: the tag store and its persistence media (memory, Redis, etcd)
//
// # Getting Started
//
// Create a store backed by a persistence medium and generate tags:
//
//	import (
//		"github.com/propsight/tagging/rule"
//		"github.com/propsight/tagging/store"
//	)
//
//	st, err := store.New(store.NewMemoryMedium(),
//		store.WithRules(rule.DefaultRules()...),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	tags, err := st.GenerateTags(ctx, "prop-123", result)
//
// # Error Handling
//
// The engine uses sentinel errors for robust error handling:
//
//	if err != nil {
//		if errors.Is(err, tagging.ErrNotFound) {
//			// Property has no tag aggregate yet
//		}
//		// Handle other errors
//	}
//
// Rule evaluation favors availability over strict validation: a malformed
// condition or an action referencing an unknown category skips that rule only
// and never aborts evaluation of subsequent rules. Persistence failures are
// logged and do not fail the in-memory operation; the cache remains
// authoritative for the current process lifetime.
//
// # Observability
//
// Store operations integrate OpenTelemetry tracing and metrics when configured
// via store.WithTracer and store.WithMeter. Both default to no-ops.
package tagging
