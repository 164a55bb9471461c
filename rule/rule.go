// Package rule implements the declarative tagging policy layer: rule and
// condition types, the condition evaluator, and the engine that applies a rule
// set to an analysis record.
//
// Rules are configuration data. They can be added and removed at runtime,
// loaded from YAML files, and are persisted by the tag store. A rule fires
// when every one of its conditions holds (logical AND); composing OR requires
// multiple rules.
package rule

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/propsight/tagging/category"
)

// ConditionType documents what part of the input a condition inspects.
// It is grouping metadata only; evaluation dispatches on Operator.
type ConditionType string

const (
	ConditionAnalysisResult ConditionType = "analysis_result"
	ConditionPropertyData   ConditionType = "property_data"
	ConditionLocation       ConditionType = "location"
	ConditionTime           ConditionType = "time"
	ConditionCustom         ConditionType = "custom"
)

// IsValid returns true if the condition type is valid.
func (t ConditionType) IsValid() bool {
	switch t {
	case ConditionAnalysisResult, ConditionPropertyData, ConditionLocation,
		ConditionTime, ConditionCustom:
		return true
	default:
		return false
	}
}

// Operator represents the comparison a condition performs. The set is closed:
// evaluation switches exhaustively over it, and rule validation rejects
// unknown operators instead of letting them silently evaluate to false.
type Operator string

const (
	// OperatorEquals tests strict equality against the field value.
	OperatorEquals Operator = "equals"

	// OperatorContains tests a case-insensitive substring, both sides
	// coerced to string.
	OperatorContains Operator = "contains"

	// OperatorGreaterThan tests numeric greater-than; non-numeric operands
	// evaluate to false.
	OperatorGreaterThan Operator = "greater_than"

	// OperatorLessThan tests numeric less-than; non-numeric operands
	// evaluate to false.
	OperatorLessThan Operator = "less_than"

	// OperatorBetween tests an inclusive [min, max] range; the condition
	// value must be a two-element list.
	OperatorBetween Operator = "between"

	// OperatorRegex tests the string-coerced field value against a pattern.
	OperatorRegex Operator = "regex"

	// OperatorExpression evaluates the condition value as a CEL program with
	// the input record bound to the variable "record". The Field is unused.
	OperatorExpression Operator = "expression"
)

// IsValid returns true if the operator is valid.
func (o Operator) IsValid() bool {
	switch o {
	case OperatorEquals, OperatorContains, OperatorGreaterThan,
		OperatorLessThan, OperatorBetween, OperatorRegex, OperatorExpression:
		return true
	default:
		return false
	}
}

// String returns the string representation of the operator.
func (o Operator) String() string {
	return string(o)
}

// ActionType represents what a rule does when it fires.
type ActionType string

const (
	// ActionAddTag adds a tag to the property; parameters carry
	// "category", "value", and optionally "priority".
	ActionAddTag ActionType = "add_tag"

	// ActionRemoveTag is reserved; the engine treats it as a no-op.
	ActionRemoveTag ActionType = "remove_tag"

	// ActionUpdateTag is reserved; the engine treats it as a no-op.
	ActionUpdateTag ActionType = "update_tag"

	// ActionNotify emits a notification for external consumers.
	ActionNotify ActionType = "notify"

	// ActionEscalate emits an escalation notification for external consumers.
	ActionEscalate ActionType = "escalate"
)

// IsValid returns true if the action type is valid.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionAddTag, ActionRemoveTag, ActionUpdateTag, ActionNotify, ActionEscalate:
		return true
	default:
		return false
	}
}

// Condition is a single declarative test against the input record.
type Condition struct {
	// Type documents what the condition inspects. Grouping metadata only.
	Type ConditionType `json:"type" yaml:"type"`

	// Field is the dot-path into the input record (e.g.
	// "marketComparison.marketTrend"). A missing path yields a nil value,
	// never an error. Unused by the expression operator.
	Field string `json:"field" yaml:"field"`

	// Operator selects the comparison.
	Operator Operator `json:"operator" yaml:"operator"`

	// Value is the comparison operand. Its expected shape depends on the
	// operator: a two-element list for between, a pattern string for regex,
	// a CEL program for expression.
	Value any `json:"value" yaml:"value"`
}

// Validate checks the condition's structure against its operator.
func (c Condition) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.By(validConditionType)),
		validation.Field(&c.Operator, validation.By(validOperator)),
		validation.Field(&c.Field, validation.Required.When(c.Operator != OperatorExpression)),
		validation.Field(&c.Value, validation.By(c.validateValue)),
	)
}

func validConditionType(value any) error {
	t, _ := value.(ConditionType)
	if t == "" {
		return nil
	}
	if !t.IsValid() {
		return fmt.Errorf("unknown condition type %q", t)
	}
	return nil
}

func validOperator(value any) error {
	o, _ := value.(Operator)
	if !o.IsValid() {
		return fmt.Errorf("unknown operator %q", o)
	}
	return nil
}

func (c Condition) validateValue(value any) error {
	if value == nil {
		return fmt.Errorf("condition value is required")
	}
	switch c.Operator {
	case OperatorBetween:
		if _, _, err := rangeBounds(value); err != nil {
			return err
		}
	case OperatorRegex, OperatorExpression:
		s, ok := value.(string)
		if !ok || s == "" {
			return fmt.Errorf("%s operator requires a non-empty string value", c.Operator)
		}
	}
	return nil
}

// Action is what a rule performs when all its conditions hold.
type Action struct {
	// Type selects the action behavior.
	Type ActionType `json:"type" yaml:"type"`

	// Parameters is the action-specific payload. For add_tag: "category",
	// "value", and optionally "priority".
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
}

// Validate checks the action's structure. It deliberately does not resolve
// category IDs: an add_tag action referencing an unknown category is skipped
// at evaluation time rather than rejected at configuration time, so a rule set
// written for a newer catalog still loads.
func (a Action) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Type, validation.By(validActionType)),
		validation.Field(&a.Parameters,
			validation.Required.When(a.Type == ActionAddTag)),
	)
}

func validActionType(value any) error {
	t, _ := value.(ActionType)
	if !t.IsValid() {
		return fmt.Errorf("unknown action type %q", t)
	}
	return nil
}

// Rule is a declarative condition→action policy.
type Rule struct {
	// ID uniquely identifies the rule.
	ID string `json:"id" yaml:"id"`

	// Name is a short human-readable label.
	Name string `json:"name" yaml:"name"`

	// Description explains what the rule is for.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Conditions must all hold for the rule to fire (logical AND).
	Conditions []Condition `json:"conditions" yaml:"conditions"`

	// Actions run when the rule fires.
	Actions []Action `json:"actions" yaml:"actions"`

	// Priority is advisory ordering metadata for display. The engine
	// evaluates rules in the order supplied; it does not sort by priority.
	Priority category.Priority `json:"priority" yaml:"priority"`

	// Enabled gates evaluation; disabled rules are skipped.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Validate checks the rule and all of its conditions and actions.
func (r Rule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Conditions, validation.Required),
		validation.Field(&r.Actions, validation.Required),
		validation.Field(&r.Priority, validation.By(validPriority)),
	)
}

func validPriority(value any) error {
	p, _ := value.(category.Priority)
	if !p.IsValid() {
		return fmt.Errorf("unknown priority %q", p)
	}
	return nil
}

// SortByPriority returns a copy of the rules ordered by priority descending,
// preserving relative order within a priority. The engine itself evaluates
// rules in list order; this helper exists for callers that want the
// priority-driven reading.
func SortByPriority(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && category.Compare(sorted[j].Priority, sorted[j-1].Priority) > 0; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// DefaultRules returns the stock rule set shipped with the engine.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "condition_critical",
			Name:        "Critical condition alert",
			Description: "Tags and notifies when a property is assessed as critical",
			Conditions: []Condition{
				{Type: ConditionAnalysisResult, Field: "condition", Operator: OperatorEquals, Value: "critical"},
			},
			Actions: []Action{
				{Type: ActionAddTag, Parameters: map[string]any{
					"category": "condition", "value": "Critical Condition", "priority": "high",
				}},
				{Type: ActionNotify, Parameters: map[string]any{
					"message": "Property condition assessed as critical",
				}},
			},
			Priority: category.PriorityHigh,
			Enabled:  true,
		},
		{
			ID:          "market_hot",
			Name:        "Hot market tag",
			Description: "Tags properties sitting in a hot local market",
			Conditions: []Condition{
				{Type: ConditionAnalysisResult, Field: "marketComparison.marketTrend", Operator: OperatorEquals, Value: "hot"},
			},
			Actions: []Action{
				{Type: ActionAddTag, Parameters: map[string]any{
					"category": "market", "value": "Hot Market", "priority": "medium",
				}},
			},
			Priority: category.PriorityMedium,
			Enabled:  true,
		},
		{
			ID:          "poor_condition_escalation",
			Name:        "Poor condition escalation",
			Description: "Escalates properties assessed as poor for maintenance review",
			Conditions: []Condition{
				{Type: ConditionAnalysisResult, Field: "condition", Operator: OperatorEquals, Value: "poor"},
			},
			Actions: []Action{
				{Type: ActionNotify, Parameters: map[string]any{
					"message": "Property condition assessed as poor",
				}},
				{Type: ActionEscalate, Parameters: map[string]any{
					"team": "maintenance",
				}},
			},
			Priority: category.PriorityHigh,
			Enabled:  true,
		},
	}
}
