package analysis

import "testing"

func TestResult_Record(t *testing.T) {
	result := Result{
		PropertyType: "apartment",
		Condition:    "good",
		Confidence:   0.92,
		Features: []Feature{
			{Type: "hardwood floors", Condition: "good", Confidence: 0.88},
		},
		Issues: []Issue{
			{Title: "peeling paint", Severity: "low", EstimatedCost: 500},
		},
		Market: &MarketComparison{MarketTrend: "hot", Confidence: 0.75},
	}

	record := result.Record()

	if got := record["propertyType"]; got != "apartment" {
		t.Errorf("record[propertyType] = %v, want apartment", got)
	}
	if got := record["condition"]; got != "good" {
		t.Errorf("record[condition] = %v, want good", got)
	}

	market, ok := record["marketComparison"].(map[string]any)
	if !ok {
		t.Fatalf("record[marketComparison] is %T, want map", record["marketComparison"])
	}
	if got := market["marketTrend"]; got != "hot" {
		t.Errorf("marketComparison.marketTrend = %v, want hot", got)
	}

	features, ok := record["features"].([]any)
	if !ok || len(features) != 1 {
		t.Fatalf("record[features] = %v, want one entry", record["features"])
	}
}

func TestResult_Record_Empty(t *testing.T) {
	record := Result{}.Record()
	if record == nil {
		t.Fatal("Record() returned nil for empty result")
	}
	if _, ok := record["propertyType"]; ok {
		t.Error("empty result should omit propertyType")
	}
}

func TestResult_Record_IsDeepCopy(t *testing.T) {
	result := Result{Market: &MarketComparison{MarketTrend: "hot"}}
	record := result.Record()

	market := record["marketComparison"].(map[string]any)
	market["marketTrend"] = "cooling"

	if result.Market.MarketTrend != "hot" {
		t.Error("mutating the record changed the source result")
	}
}
