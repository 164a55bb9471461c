package rule

import (
	"log/slog"

	"github.com/propsight/tagging/category"
	"github.com/propsight/tagging/tag"
)

// ruleConfidence is the fixed confidence assigned to rule-derived tags.
// Rule-derived tags are treated as high-confidence: the rule author encoded
// the judgment, not a probabilistic model.
const ruleConfidence = 0.9

// Notification is an outward-facing signal produced by notify and escalate
// actions. The engine does not deliver notifications; it returns them for the
// caller to dispatch.
type Notification struct {
	// RuleID identifies the firing rule.
	RuleID string `json:"rule_id"`

	// RuleName is the firing rule's display name.
	RuleName string `json:"rule_name"`

	// Type is either ActionNotify or ActionEscalate.
	Type ActionType `json:"type"`

	// PropertyID identifies the property the rule fired for.
	PropertyID string `json:"property_id"`

	// Parameters carries the action's payload (message, target team, etc.).
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Result is the outcome of applying a rule set to one analysis record.
type Result struct {
	// Tags holds the tags produced by add_tag actions of firing rules.
	Tags []tag.Tag

	// Notifications holds the signals produced by notify/escalate actions.
	Notifications []Notification

	// Fired lists the IDs of rules whose conditions all held, in
	// evaluation order.
	Fired []string
}

// Engine applies tagging rules to analysis records.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a rule engine. A nil logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Apply evaluates the rules against the record, in the order supplied.
// Rule.Priority never reorders evaluation; it is advisory metadata.
//
// Disabled rules are skipped. A rule fires only when every condition holds.
// Malformed conditions or actions (bad regex, unknown category, missing
// parameters) skip that rule or action silently — logged at debug level —
// and never abort evaluation of subsequent rules.
func (e *Engine) Apply(propertyID string, record map[string]any, rules []Rule) Result {
	var res Result

	for _, r := range rules {
		if !r.Enabled {
			continue
		}

		matched := true
		for _, c := range r.Conditions {
			ok, err := Evaluate(c, record)
			if err != nil {
				e.logger.Debug("skipping rule with malformed condition",
					"rule_id", r.ID, "field", c.Field, "operator", string(c.Operator), "error", err)
				matched = false
				break
			}
			if !ok {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		res.Fired = append(res.Fired, r.ID)
		for _, a := range r.Actions {
			switch a.Type {
			case ActionAddTag:
				t, err := e.tagFromAction(r, a)
				if err != nil {
					e.logger.Debug("skipping malformed add_tag action",
						"rule_id", r.ID, "error", err)
					continue
				}
				res.Tags = append(res.Tags, t)

			case ActionNotify, ActionEscalate:
				res.Notifications = append(res.Notifications, Notification{
					RuleID:     r.ID,
					RuleName:   r.Name,
					Type:       a.Type,
					PropertyID: propertyID,
					Parameters: a.Parameters,
				})

			case ActionRemoveTag, ActionUpdateTag:
				// Reserved action types; they never mutate the returned
				// tag list.

			default:
				e.logger.Debug("skipping unknown action type",
					"rule_id", r.ID, "action_type", string(a.Type))
			}
		}
	}

	return res
}

// tagFromAction builds the tag an add_tag action describes. The rule ID is
// recorded in metadata for traceability.
func (e *Engine) tagFromAction(r Rule, a Action) (tag.Tag, error) {
	catName, _ := a.Parameters["category"].(string)
	cat, err := category.Parse(catName)
	if err != nil {
		return tag.Tag{}, err
	}

	value, _ := a.Parameters["value"].(string)
	t := tag.New(cat, value, ruleConfidence, tag.SourceCalculated)
	t.Metadata = map[string]any{"ruleId": r.ID}
	if priority, ok := a.Parameters["priority"]; ok {
		t.Metadata["priority"] = priority
	}
	return t, t.Validate()
}
