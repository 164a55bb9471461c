package tag

import (
	"testing"
	"time"

	"github.com/propsight/tagging/category"
)

func TestFilter_Matches(t *testing.T) {
	tg := New(category.CategoryFeatures, "Hardwood Floors", 0.8, SourceAIAnalysis)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches", Filter{}, true},
		{"matching category", Filter{Categories: []category.Category{category.CategoryFeatures}}, true},
		{"non-matching category", Filter{Categories: []category.Category{category.CategoryIssues}}, false},
		{"substring match is case-insensitive", Filter{Value: "hardwood"}, true},
		{"substring no match", Filter{Value: "marble"}, false},
		{"matching source", Filter{Sources: []Source{SourceAIAnalysis, SourceManual}}, true},
		{"non-matching source", Filter{Sources: []Source{SourceManual}}, false},
		{"min confidence met", Filter{MinConfidence: 0.8}, true},
		{"min confidence not met", Filter{MinConfidence: 0.81}, false},
		{"max confidence met", Filter{MaxConfidence: 0.8}, true},
		{"max confidence exceeded", Filter{MaxConfidence: 0.79}, false},
		{"created after past instant", Filter{After: time.Now().Add(-time.Hour)}, true},
		{"created before past instant", Filter{Before: time.Now().Add(-time.Hour)}, false},
		{
			"all criteria AND together",
			Filter{
				Categories:    []category.Category{category.CategoryFeatures},
				Value:         "floors",
				MinConfidence: 0.9,
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tg); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Narrow(t *testing.T) {
	pt := NewPropertyTags("prop-1", []Tag{
		New(category.CategoryFeatures, "pool", 0.9, SourceAIAnalysis),
		New(category.CategoryIssues, "roof damage (high)", 0.8, SourceAIAnalysis),
	})

	f := Filter{Categories: []category.Category{category.CategoryIssues}}
	narrowed := f.Narrow(pt)

	if narrowed == nil {
		t.Fatal("Narrow() returned nil for a matching aggregate")
	}
	if len(narrowed.Tags) != 1 || narrowed.Tags[0].Category != category.CategoryIssues {
		t.Errorf("Narrow() tags = %v, want only the issues tag", narrowed.Tags)
	}
	if narrowed.Summary.TotalTags != 1 {
		t.Errorf("Narrow() summary not recomputed: TotalTags = %d", narrowed.Summary.TotalTags)
	}
	if len(pt.Tags) != 2 {
		t.Error("Narrow() mutated the source aggregate")
	}
}

func TestFilter_Narrow_NoMatches(t *testing.T) {
	pt := NewPropertyTags("prop-1", []Tag{
		New(category.CategoryFeatures, "pool", 0.9, SourceAIAnalysis),
	})

	f := Filter{Value: "garage"}
	if got := f.Narrow(pt); got != nil {
		t.Errorf("Narrow() = %v, want nil when nothing matches", got)
	}
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"empty filter", Filter{}, false},
		{"valid ranges", Filter{MinConfidence: 0.2, MaxConfidence: 0.9}, false},
		{"invalid category", Filter{Categories: []category.Category{"nope"}}, true},
		{"invalid source", Filter{Sources: []Source{"guessed"}}, true},
		{"negative min confidence", Filter{MinConfidence: -1}, true},
		{"inverted confidence range", Filter{MinConfidence: 0.9, MaxConfidence: 0.5}, true},
		{
			"inverted time range",
			Filter{After: time.Now(), Before: time.Now().Add(-time.Hour)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Filter.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
