package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk layout of a YAML rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads and validates a YAML rule set.
//
// Example file:
//
//	rules:
//	  - id: condition_critical
//	    name: Critical condition alert
//	    conditions:
//	      - type: analysis_result
//	        field: condition
//	        operator: equals
//	        value: critical
//	    actions:
//	      - type: add_tag
//	        parameters:
//	          category: condition
//	          value: Critical Condition
//	          priority: high
//	    priority: high
//	    enabled: true
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %s: %w", path, err)
	}
	return Load(data)
}

// Load parses and validates a YAML rule set from raw bytes.
func Load(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}
	for i, r := range file.Rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rule %q (index %d): %w", r.ID, i, err)
		}
	}
	return file.Rules, nil
}

// SaveFile writes a rule set to a YAML file, validating it first.
func SaveFile(path string, rules []Rule) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid rule %q (index %d): %w", r.ID, i, err)
		}
	}
	data, err := yaml.Marshal(ruleFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("marshal rule file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rule file %s: %w", path, err)
	}
	return nil
}
