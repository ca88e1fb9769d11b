package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// WithOverrides decodes overrides over a copy of base. Fields absent from
// overrides keep their base values.
func (s AgentSpec) WithOverrides(overrides map[string]any) (AgentSpec, error) {
	if len(overrides) == 0 {
		return s, nil
	}
	b, err := yaml.Marshal(overrides)
	if err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: encode overrides: %w", err)
	}
	out := s
	out.AI.Jump.Curve.Keys = append(out.AI.Jump.Curve.Keys[:0:0], s.AI.Jump.Curve.Keys...)
	if err := yaml.Unmarshal(b, &out); err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: decode overrides: %w", err)
	}
	if err := out.Validate(); err != nil {
		return AgentSpec{}, err
	}
	return out, nil
}
