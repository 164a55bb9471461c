// Package engine implements the tag synthesis and aggregation pipeline: the
// deterministic mapping from analysis results to baseline tags, and the
// merge + filter + cap algorithm that turns candidate tags into the stored
// tag set for a property.
package engine

import (
	"fmt"

	"github.com/propsight/tagging/analysis"
	"github.com/propsight/tagging/category"
	"github.com/propsight/tagging/tag"
)

// Fixed design confidences for synthesized tags. Field-level detections carry
// their own confidence where the producer reports one.
const (
	propertyTypeConfidence   = 0.9
	conditionConfidence      = 0.85
	defaultFeatureConfidence = 0.8
	issueConfidence          = 0.8
	defaultMarketConfidence  = 0.7
)

// Synthesize derives the baseline tag set directly from the structured fields
// of an analysis result. It is a pure function of its input: no side effects,
// and every present field maps to tags the same way every time.
func Synthesize(result analysis.Result) []tag.Tag {
	var tags []tag.Tag

	if result.PropertyType != "" {
		tags = append(tags, tag.New(
			category.CategoryFeatures,
			result.PropertyType,
			propertyTypeConfidence,
			tag.SourceAIAnalysis,
		))
	}

	if result.Condition != "" {
		tags = append(tags, tag.New(
			category.CategoryCondition,
			fmt.Sprintf("Condition: %s", result.Condition),
			conditionConfidence,
			tag.SourceAIAnalysis,
		))
	}

	for _, f := range result.Features {
		confidence := f.Confidence
		if confidence == 0 {
			confidence = defaultFeatureConfidence
		}
		t := tag.New(category.CategoryFeatures, f.Type, confidence, tag.SourceAIAnalysis)
		if f.Coordinates != nil {
			t.Metadata = map[string]any{
				"coordinates": map[string]any{
					"x":      f.Coordinates.X,
					"y":      f.Coordinates.Y,
					"width":  f.Coordinates.Width,
					"height": f.Coordinates.Height,
				},
			}
		}
		tags = append(tags, t)
	}

	for _, issue := range result.Issues {
		t := tag.New(
			category.CategoryIssues,
			fmt.Sprintf("%s (%s)", issue.Title, issue.Severity),
			issueConfidence,
			tag.SourceAIAnalysis,
		)
		t.Metadata = map[string]any{"severity": issue.Severity}
		if issue.EstimatedCost > 0 {
			t.Metadata["estimatedCost"] = issue.EstimatedCost
		}
		if issue.Priority != "" {
			t.Metadata["priority"] = issue.Priority
		}
		tags = append(tags, t)
	}

	if result.Market != nil {
		confidence := result.Market.Confidence
		if confidence == 0 {
			confidence = defaultMarketConfidence
		}
		tags = append(tags, tag.New(
			category.CategoryMarket,
			fmt.Sprintf("Market: %s", result.Market.MarketTrend),
			confidence,
			tag.SourceCalculated,
		))
	}

	return tags
}
