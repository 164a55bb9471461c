package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/propsight/tagging"
	"github.com/propsight/tagging/analysis"
	tagengine "github.com/propsight/tagging/engine"
	"github.com/propsight/tagging/rule"
	"github.com/propsight/tagging/tag"
)

// TagStore owns the in-memory map of property ID → PropertyTags and is the
// sole writer of the persisted representation. Every mutating operation
// snapshots the full state to the medium (write-through); persistence
// failures are logged and never fail the in-memory operation, so the cache
// stays authoritative for the process lifetime.
//
// All methods are safe for concurrent use. The store holds its lock across
// the mutate-then-persist section, so concurrent GenerateTags calls for the
// same property serialize instead of losing updates.
type TagStore struct {
	mu         sync.RWMutex
	medium     Medium
	logger     *slog.Logger
	tracer     trace.Tracer
	ruleEngine *rule.Engine
	aggOpts    tagengine.Options
	notify     func(rule.Notification)

	properties map[string]*tag.PropertyTags
	rules      []rule.Rule

	tagsGenerated   metric.Int64Counter
	rulesFired      metric.Int64Counter
	persistFailures metric.Int64Counter

	meterOverride *metric.Meter
}

// Option configures a TagStore.
type Option func(*TagStore)

// WithRules sets the initial rule set. Rules previously persisted to the
// medium take precedence over this initial set when the store loads.
func WithRules(rules ...rule.Rule) Option {
	return func(s *TagStore) {
		s.rules = rules
	}
}

// WithConfidenceThreshold sets the minimum confidence a tag must carry to
// survive aggregation.
func WithConfidenceThreshold(threshold float64) Option {
	return func(s *TagStore) {
		s.aggOpts.ConfidenceThreshold = threshold
	}
}

// WithMaxTagsPerCategory caps how many tags any one category retains after
// aggregation.
func WithMaxTagsPerCategory(limit int) Option {
	return func(s *TagStore) {
		s.aggOpts.MaxTagsPerCategory = limit
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *TagStore) {
		s.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for store operations.
// Defaults to a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *TagStore) {
		s.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for store metrics.
// Defaults to a no-op meter.
func WithMeter(meter metric.Meter) Option {
	return func(s *TagStore) {
		s.meterOverride = &meter
	}
}

// WithNotifier sets the callback that receives notify/escalate signals from
// firing rules. Without one, notifications are logged at info level.
func WithNotifier(notify func(rule.Notification)) Option {
	return func(s *TagStore) {
		s.notify = notify
	}
}

// New creates a TagStore backed by the given medium and loads any previously
// persisted tag and rule snapshots. When no rules were persisted and none are
// supplied via WithRules, the stock rule set (rule.DefaultRules) applies.
func New(medium Medium, opts ...Option) (*TagStore, error) {
	s := &TagStore{
		medium:     medium,
		logger:     slog.Default(),
		tracer:     tracenoop.NewTracerProvider().Tracer("tagging"),
		aggOpts:    tagengine.DefaultOptions(),
		properties: make(map[string]*tag.PropertyTags),
		rules:      rule.DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ruleEngine = rule.NewEngine(s.logger)

	meter := metricnoop.NewMeterProvider().Meter("tagging")
	if s.meterOverride != nil {
		meter = *s.meterOverride
	}
	if err := s.initMetrics(meter); err != nil {
		return nil, err
	}

	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TagStore) initMetrics(meter metric.Meter) error {
	var err error
	s.tagsGenerated, err = meter.Int64Counter(
		"tagging.tags.generated",
		metric.WithDescription("Number of tags retained by aggregation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("create tags counter: %w", err)
	}
	s.rulesFired, err = meter.Int64Counter(
		"tagging.rules.fired",
		metric.WithDescription("Number of tagging rules whose conditions held"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("create rules counter: %w", err)
	}
	s.persistFailures, err = meter.Int64Counter(
		"tagging.persist.failures",
		metric.WithDescription("Number of failed snapshot writes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("create persist counter: %w", err)
	}
	return nil
}

// load restores the persisted snapshots. Missing keys start the store empty;
// a storage failure is logged and the store starts empty (the cache is
// authoritative from then on); a corrupt snapshot is a hard error.
func (s *TagStore) load(ctx context.Context) error {
	data, err := s.medium.Read(ctx, propertiesKey)
	switch {
	case errors.Is(err, tagging.ErrNotFound):
	case err != nil:
		s.logger.Error("failed to load tag snapshot", "error", err)
	default:
		var properties map[string]*tag.PropertyTags
		if err := json.Unmarshal(data, &properties); err != nil {
			return fmt.Errorf("%w: tag snapshot: %v", tagging.ErrParseFailure, err)
		}
		s.properties = properties
	}

	data, err = s.medium.Read(ctx, rulesKey)
	switch {
	case errors.Is(err, tagging.ErrNotFound):
	case err != nil:
		s.logger.Error("failed to load rule snapshot", "error", err)
	default:
		var rules []rule.Rule
		if err := json.Unmarshal(data, &rules); err != nil {
			return fmt.Errorf("%w: rule snapshot: %v", tagging.ErrParseFailure, err)
		}
		s.rules = rules
	}
	return nil
}

// GenerateTags runs the full pipeline for a property: synthesize baseline
// tags from the analysis result, apply the rule set, aggregate against the
// property's existing tags, cache the aggregate, and persist the snapshot.
func (s *TagStore) GenerateTags(ctx context.Context, propertyID string, result analysis.Result) (*tag.PropertyTags, error) {
	ctx, span := s.tracer.Start(ctx, "tagging.generate",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	if propertyID == "" {
		return nil, fmt.Errorf("property ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	synthesized := tagengine.Synthesize(result)
	applied := s.ruleEngine.Apply(propertyID, result.Record(), s.rules)

	var existing []tag.Tag
	if current, ok := s.properties[propertyID]; ok {
		existing = current.Tags
	}

	merged := tagengine.Aggregate(existing, synthesized, applied.Tags, s.aggOpts)
	pt := tag.NewPropertyTags(propertyID, merged)
	s.properties[propertyID] = pt

	s.tagsGenerated.Add(ctx, int64(len(merged)))
	s.rulesFired.Add(ctx, int64(len(applied.Fired)))
	span.SetAttributes(
		attribute.Int("tags.count", len(merged)),
		attribute.Int("rules.fired", len(applied.Fired)),
	)

	for _, n := range applied.Notifications {
		if s.notify != nil {
			s.notify(n)
		} else {
			s.logger.Info("rule notification",
				"property_id", n.PropertyID, "rule_id", n.RuleID, "type", string(n.Type))
		}
	}

	s.persistProperties(ctx)
	return pt.Clone(), nil
}

// PropertyTags returns the property's current aggregate, or nil when the
// property has never been tagged. Pure lookup, no side effects.
func (s *TagStore) PropertyTags(ctx context.Context, propertyID string) *tag.PropertyTags {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt, ok := s.properties[propertyID]
	if !ok {
		return nil
	}
	return pt.Clone()
}

// TagPatch is a partial update to a single tag. Nil fields are left as-is;
// Metadata, when set, replaces the tag's metadata wholesale.
type TagPatch struct {
	Value      *string
	Confidence *float64
	Source     *tag.Source
	Metadata   map[string]any
}

// TagUpdate names a tag and the patch to apply.
type TagUpdate struct {
	TagID string
	Patch TagPatch
}

// UpdateTags applies partial patches to named tags. Each patched tag is
// replaced, not mutated in place, preserving audit semantics. Updates
// naming unknown tag IDs are skipped. Returns tagging.ErrNotFound when the
// property has no aggregate; an invalid patched tag rejects the whole call.
func (s *TagStore) UpdateTags(ctx context.Context, propertyID string, updates []TagUpdate) (*tag.PropertyTags, error) {
	ctx, span := s.tracer.Start(ctx, "tagging.update",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: property %s", tagging.ErrNotFound, propertyID)
	}

	patches := make(map[string]TagPatch, len(updates))
	for _, u := range updates {
		patches[u.TagID] = u.Patch
	}

	next := pt.Clone()
	for i, t := range next.Tags {
		patch, ok := patches[t.ID]
		if !ok {
			continue
		}
		replacement := t.Clone()
		if patch.Value != nil {
			replacement.Value = *patch.Value
		}
		if patch.Confidence != nil {
			replacement.Confidence = *patch.Confidence
		}
		if patch.Source != nil {
			replacement.Source = *patch.Source
		}
		if patch.Metadata != nil {
			replacement.Metadata = patch.Metadata
		}
		if err := replacement.Validate(); err != nil {
			return nil, fmt.Errorf("invalid update for tag %s: %w", t.ID, err)
		}
		next.Tags[i] = replacement
	}
	next.RecomputeSummary()
	s.properties[propertyID] = next

	s.persistProperties(ctx)
	return next.Clone(), nil
}

// RemoveTags removes the named tags and recomputes the summary. Unknown tag
// IDs are ignored. Returns tagging.ErrNotFound when the property has no
// aggregate; the store is left unchanged in that case.
func (s *TagStore) RemoveTags(ctx context.Context, propertyID string, tagIDs []string) (*tag.PropertyTags, error) {
	ctx, span := s.tracer.Start(ctx, "tagging.remove",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: property %s", tagging.ErrNotFound, propertyID)
	}

	doomed := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		doomed[id] = true
	}

	kept := make([]tag.Tag, 0, len(pt.Tags))
	for _, t := range pt.Tags {
		if !doomed[t.ID] {
			kept = append(kept, t.Clone())
		}
	}

	next := tag.NewPropertyTags(propertyID, kept)
	s.properties[propertyID] = next

	s.persistProperties(ctx)
	return next.Clone(), nil
}

// Search filters tags across all properties. Only properties with at least
// one matching tag are returned, each narrowed to its matching tags with a
// recomputed summary. Results are ordered by property ID.
func (s *TagStore) Search(ctx context.Context, filter tag.Filter) ([]*tag.PropertyTags, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.properties))
	for id := range s.properties {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var results []*tag.PropertyTags
	for _, id := range ids {
		if narrowed := filter.Narrow(s.properties[id]); narrowed != nil {
			results = append(results, narrowed)
		}
	}
	return results, nil
}

// Export serializes the property's aggregate in the given format.
// Returns tagging.ErrNotFound when the property has no aggregate.
func (s *TagStore) Export(ctx context.Context, propertyID string, format tag.Format) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt, ok := s.properties[propertyID]
	if !ok {
		return "", fmt.Errorf("%w: property %s", tagging.ErrNotFound, propertyID)
	}
	return tag.Export(pt, format)
}

// Import parses serialized tag data and replaces the property's tag set
// wholesale (not merged with existing tags). The property's aggregate is
// created when absent. Parse failures are hard errors; nothing is applied.
func (s *TagStore) Import(ctx context.Context, propertyID, data string, format tag.Format) (*tag.PropertyTags, error) {
	ctx, span := s.tracer.Start(ctx, "tagging.import",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	pt, err := tag.Import(propertyID, data, format)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.properties[propertyID] = pt
	s.persistProperties(ctx)
	return pt.Clone(), nil
}

// Clear removes the property's aggregate entirely. Aggregates are never
// deleted implicitly; this is the explicit teardown path.
// Returns tagging.ErrNotFound when the property has no aggregate.
func (s *TagStore) Clear(ctx context.Context, propertyID string) error {
	ctx, span := s.tracer.Start(ctx, "tagging.clear",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[propertyID]; !ok {
		return fmt.Errorf("%w: property %s", tagging.ErrNotFound, propertyID)
	}
	delete(s.properties, propertyID)
	s.persistProperties(ctx)
	return nil
}

// AddRule validates and adds a rule to the rule set, replacing any existing
// rule with the same ID, and persists the rule snapshot.
func (s *TagStore) AddRule(ctx context.Context, r rule.Rule) error {
	ctx, span := s.tracer.Start(ctx, "tagging.add_rule",
		trace.WithAttributes(attribute.String("rule.id", r.ID)))
	defer span.End()

	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.rules {
		if s.rules[i].ID == r.ID {
			s.rules[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		s.rules = append(s.rules, r)
	}

	s.persistRules(ctx)
	return nil
}

// RemoveRule removes a rule by ID and persists the rule snapshot.
// Returns tagging.ErrNotFound when no rule has that ID.
func (s *TagStore) RemoveRule(ctx context.Context, ruleID string) error {
	ctx, span := s.tracer.Start(ctx, "tagging.remove_rule",
		trace.WithAttributes(attribute.String("rule.id", ruleID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == ruleID {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			s.persistRules(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: rule %s", tagging.ErrNotFound, ruleID)
}

// Rules returns a copy of the current rule set in evaluation order.
func (s *TagStore) Rules() []rule.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]rule.Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// Close closes the underlying persistence medium.
func (s *TagStore) Close() error {
	return s.medium.Close()
}

// persistProperties snapshots the full property map. Failures are logged and
// counted but never propagated; the in-memory state is authoritative.
func (s *TagStore) persistProperties(ctx context.Context) {
	data, err := json.Marshal(s.properties)
	if err == nil {
		err = s.medium.Write(ctx, propertiesKey, data)
	}
	if err != nil {
		s.persistFailures.Add(ctx, 1)
		s.logger.Error("failed to persist tag snapshot", "error", err)
	}
}

// persistRules snapshots the full rule list, same failure policy as
// persistProperties.
func (s *TagStore) persistRules(ctx context.Context) {
	data, err := json.Marshal(s.rules)
	if err == nil {
		err = s.medium.Write(ctx, rulesKey, data)
	}
	if err != nil {
		s.persistFailures.Add(ctx, 1)
		s.logger.Error("failed to persist rule snapshot", "error", err)
	}
}
