package rule

import "testing"

func testRecord() map[string]any {
	return map[string]any{
		"propertyType": "apartment",
		"condition":    "critical",
		"confidence":   0.5,
		"marketComparison": map[string]any{
			"marketTrend": "hot",
			"confidence":  0.75,
		},
	}
}

func TestLookup(t *testing.T) {
	record := testRecord()

	tests := []struct {
		name string
		path string
		want any
	}{
		{"top-level field", "condition", "critical"},
		{"nested field", "marketComparison.marketTrend", "hot"},
		{"missing top-level", "location", nil},
		{"missing nested", "marketComparison.medianPrice", nil},
		{"path through non-map", "condition.inner", nil},
		{"empty path", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(record, tt.path); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	record := testRecord()

	tests := []struct {
		name      string
		condition Condition
		want      bool
		wantErr   bool
	}{
		{
			"equals string match",
			Condition{Field: "condition", Operator: OperatorEquals, Value: "critical"},
			true, false,
		},
		{
			"equals string mismatch",
			Condition{Field: "condition", Operator: OperatorEquals, Value: "good"},
			false, false,
		},
		{
			"equals int literal against json float",
			Condition{Field: "confidence", Operator: OperatorEquals, Value: 0.5},
			true, false,
		},
		{
			"equals numeric string stays strict",
			Condition{Field: "confidence", Operator: OperatorEquals, Value: "0.5"},
			false, false,
		},
		{
			"equals missing path",
			Condition{Field: "missing.path", Operator: OperatorEquals, Value: "x"},
			false, false,
		},
		{
			"contains case-insensitive",
			Condition{Field: "propertyType", Operator: OperatorContains, Value: "APART"},
			true, false,
		},
		{
			"contains no match",
			Condition{Field: "propertyType", Operator: OperatorContains, Value: "house"},
			false, false,
		},
		{
			"greater_than holds",
			Condition{Field: "confidence", Operator: OperatorGreaterThan, Value: 0.4},
			true, false,
		},
		{
			"greater_than fails",
			Condition{Field: "confidence", Operator: OperatorGreaterThan, Value: 0.9},
			false, false,
		},
		{
			"greater_than numeric string operand",
			Condition{Field: "confidence", Operator: OperatorGreaterThan, Value: "0.4"},
			true, false,
		},
		{
			"greater_than non-numeric field is false",
			Condition{Field: "condition", Operator: OperatorGreaterThan, Value: 1},
			false, false,
		},
		{
			"less_than holds",
			Condition{Field: "confidence", Operator: OperatorLessThan, Value: 0.9},
			true, false,
		},
		{
			"between inclusive lower bound",
			Condition{Field: "confidence", Operator: OperatorBetween, Value: []any{0.5, 1.0}},
			true, false,
		},
		{
			"between inclusive upper bound",
			Condition{Field: "confidence", Operator: OperatorBetween, Value: []float64{0.1, 0.5}},
			true, false,
		},
		{
			"between outside range",
			Condition{Field: "confidence", Operator: OperatorBetween, Value: []any{0.6, 1.0}},
			false, false,
		},
		{
			"between malformed bounds",
			Condition{Field: "confidence", Operator: OperatorBetween, Value: "0.1-0.9"},
			false, true,
		},
		{
			"between wrong arity",
			Condition{Field: "confidence", Operator: OperatorBetween, Value: []any{0.1}},
			false, true,
		},
		{
			"regex match",
			Condition{Field: "condition", Operator: OperatorRegex, Value: "^crit"},
			true, false,
		},
		{
			"regex against numeric field",
			Condition{Field: "confidence", Operator: OperatorRegex, Value: `^0\.5$`},
			true, false,
		},
		{
			"regex bad pattern",
			Condition{Field: "condition", Operator: OperatorRegex, Value: "("},
			false, true,
		},
		{
			"expression true",
			Condition{Operator: OperatorExpression, Value: `record.condition == "critical" && record.confidence < 0.9`},
			true, false,
		},
		{
			"expression false",
			Condition{Operator: OperatorExpression, Value: `record.marketComparison.marketTrend == "cooling"`},
			false, false,
		},
		{
			"expression compile error",
			Condition{Operator: OperatorExpression, Value: `record.condition ==`},
			false, true,
		},
		{
			"expression non-bool result",
			Condition{Operator: OperatorExpression, Value: `record.condition`},
			false, true,
		},
		{
			"unknown operator",
			Condition{Field: "condition", Operator: Operator("matches"), Value: "x"},
			false, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.condition, record)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_NoSideEffects(t *testing.T) {
	record := testRecord()
	c := Condition{Operator: OperatorExpression, Value: `record.condition == "critical"`}

	for i := 0; i < 3; i++ {
		if _, err := Evaluate(c, record); err != nil {
			t.Fatalf("Evaluate() run %d error = %v", i, err)
		}
	}
	if record["condition"] != "critical" {
		t.Error("Evaluate() mutated the record")
	}
}
