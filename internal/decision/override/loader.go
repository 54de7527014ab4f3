package override

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML list of override rules and compiles each one.
// Any unparseable expression fails the whole load; a half-working override
// set is worse than none.
func LoadFromFile(file string) ([]Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	rules := []Rule{}
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("parsing override rules: %w", err)
	}

	env, err := NewPredictionEnv()
	if err != nil {
		return nil, err
	}

	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, fmt.Errorf("compiling override rule %d (%s): %w", i, rules[i].When, err)
		}
	}
	return rules, nil
}
