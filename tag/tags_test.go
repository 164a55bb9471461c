package tag

import (
	"math"
	"testing"

	"github.com/propsight/tagging/category"
)

func TestNewPropertyTags_Summary(t *testing.T) {
	tags := []Tag{
		New(category.CategoryCondition, "Condition: good", 0.9, SourceAIAnalysis),
		New(category.CategoryFeatures, "hardwood floors", 0.8, SourceAIAnalysis),
		New(category.CategoryFeatures, "granite countertops", 0.7, SourceAIAnalysis),
	}

	pt := NewPropertyTags("prop-1", tags)

	if pt.Summary.TotalTags != 3 {
		t.Errorf("Summary.TotalTags = %d, want 3", pt.Summary.TotalTags)
	}
	if pt.Summary.Categories["features"] != 2 {
		t.Errorf("Summary.Categories[features] = %d, want 2", pt.Summary.Categories["features"])
	}
	if pt.Summary.Categories["condition"] != 1 {
		t.Errorf("Summary.Categories[condition] = %d, want 1", pt.Summary.Categories["condition"])
	}
	if math.Abs(pt.Summary.Confidence-0.8) > 1e-9 {
		t.Errorf("Summary.Confidence = %v, want 0.8", pt.Summary.Confidence)
	}
	if pt.Summary.LastUpdated.IsZero() {
		t.Error("Summary.LastUpdated not set")
	}
}

func TestRecomputeSummary_Empty(t *testing.T) {
	pt := NewPropertyTags("prop-1", nil)

	if pt.Summary.TotalTags != 0 {
		t.Errorf("Summary.TotalTags = %d, want 0", pt.Summary.TotalTags)
	}
	if pt.Summary.Confidence != 0 {
		t.Errorf("Summary.Confidence = %v, want 0 for empty set", pt.Summary.Confidence)
	}
}

func TestRecomputeSummary_TracksChanges(t *testing.T) {
	pt := NewPropertyTags("prop-1", []Tag{
		New(category.CategoryCondition, "Condition: good", 0.9, SourceAIAnalysis),
	})

	pt.Tags = append(pt.Tags, New(category.CategoryIssues, "roof damage (high)", 0.8, SourceAIAnalysis))
	pt.RecomputeSummary()

	if pt.Summary.TotalTags != 2 {
		t.Errorf("Summary.TotalTags = %d, want 2 after recompute", pt.Summary.TotalTags)
	}
	if pt.Summary.Categories["issues"] != 1 {
		t.Errorf("Summary.Categories[issues] = %d, want 1", pt.Summary.Categories["issues"])
	}
}

func TestSorted(t *testing.T) {
	pt := NewPropertyTags("prop-1", []Tag{
		New(category.CategoryFeatures, "low", 0.5, SourceAIAnalysis),
		New(category.CategoryFeatures, "high", 0.9, SourceAIAnalysis),
		New(category.CategoryFeatures, "mid", 0.7, SourceAIAnalysis),
	})

	sorted := pt.Sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Confidence > sorted[i-1].Confidence {
			t.Fatalf("Sorted() not confidence-descending: %v before %v",
				sorted[i-1].Confidence, sorted[i].Confidence)
		}
	}

	// Stored order stays as-is.
	if pt.Tags[0].Value != "low" {
		t.Error("Sorted() reordered the stored tags")
	}
}

func TestFind(t *testing.T) {
	tg := New(category.CategoryMarket, "Market: hot", 0.75, SourceCalculated)
	pt := NewPropertyTags("prop-1", []Tag{tg})

	got, ok := pt.Find(tg.ID)
	if !ok || got.Value != "Market: hot" {
		t.Errorf("Find(%s) = %v, %v; want the market tag", tg.ID, got.Value, ok)
	}

	if _, ok := pt.Find("missing"); ok {
		t.Error("Find(missing) reported a match")
	}
}

func TestPropertyTags_Clone(t *testing.T) {
	pt := NewPropertyTags("prop-1", []Tag{
		New(category.CategoryCondition, "Condition: fair", 0.85, SourceAIAnalysis),
	})

	clone := pt.Clone()
	clone.Tags[0].Value = "changed"
	clone.Summary.Categories["condition"] = 42

	if pt.Tags[0].Value != "Condition: fair" {
		t.Error("Clone() shares tags with the original")
	}
	if pt.Summary.Categories["condition"] != 1 {
		t.Error("Clone() shares summary counts with the original")
	}
}
