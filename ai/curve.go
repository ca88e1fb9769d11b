package ai

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/pursuit/common"
)

// Curve maps jump progress in [0, 1] to a height factor, where 1 is the apex.
type Curve interface {
	Value(t float64) float64
}

type CurveFunc func(t float64) float64

func (f CurveFunc) Value(t float64) float64 {
	return f(t)
}

// ParabolaCurve rises from 0 to 1 at t=0.5 and lands at 0.
var ParabolaCurve Curve = CurveFunc(func(t float64) float64 {
	return 4 * t * (1 - t)
})

type CurveKey struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// CurveSpec selects a jump curve: authored keys, a tengo script, or the
// parabola when both are empty.
type CurveSpec struct {
	Keys   []CurveKey `yaml:"keys"`
	Script string     `yaml:"script"`
}

func (s CurveSpec) validate() error {
	if len(s.Keys) > 0 && strings.TrimSpace(s.Script) != "" {
		return fmt.Errorf("%w: jump curve has both keys and script", ErrInvalidConfig)
	}
	return nil
}

// Build resolves the spec to a Curve. loadScript is only called for script
// curves.
func (s CurveSpec) Build(loadScript func(name string) ([]byte, error)) (Curve, error) {
	if len(s.Keys) > 0 {
		return NewKeyframeCurve(s.Keys)
	}
	name := strings.TrimSpace(s.Script)
	if name == "" {
		return ParabolaCurve, nil
	}
	if loadScript == nil {
		return nil, fmt.Errorf("ai: no script loader for curve %s", name)
	}
	src, err := loadScript(name)
	if err != nil {
		return nil, fmt.Errorf("ai: load curve script %s: %w", name, err)
	}
	return NewScriptCurve(name, src)
}

// KeyframeCurve interpolates linearly between keys and holds the end values
// outside their range.
type KeyframeCurve struct {
	keys []CurveKey
}

func NewKeyframeCurve(keys []CurveKey) (*KeyframeCurve, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: keyframe curve needs at least one key", ErrInvalidConfig)
	}
	sorted := append([]CurveKey(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return &KeyframeCurve{keys: sorted}, nil
}

func (c *KeyframeCurve) Value(t float64) float64 {
	keys := c.keys
	if t <= keys[0].T {
		return keys[0].V
	}
	last := keys[len(keys)-1]
	if t >= last.T {
		return last.V
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].T > t })
	a, b := keys[i-1], keys[i]
	span := b.T - a.T
	if span <= 0 {
		return b.V
	}
	return common.Lerp(a.V, b.V, (t-a.T)/span)
}

// ScriptCurve evaluates a tengo script that reads the global `progress` and
// defines `height`.
type ScriptCurve struct {
	name     string
	compiled *tengo.Compiled
	failed   bool
}

func NewScriptCurve(name string, src []byte) (*ScriptCurve, error) {
	script := tengo.NewScript(src)
	if err := script.Add("progress", 0.0); err != nil {
		return nil, fmt.Errorf("ai: curve script %s: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile curve script %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("ai: run curve script %s: %w", name, err)
	}
	if !compiled.IsDefined("height") {
		return nil, fmt.Errorf("ai: curve script %s does not define height", name)
	}
	return &ScriptCurve{name: name, compiled: compiled}, nil
}

// Value returns 0 when the script fails; the failure is logged once.
func (c *ScriptCurve) Value(t float64) float64 {
	if err := c.compiled.Set("progress", t); err != nil {
		c.fail(err)
		return 0
	}
	if err := c.compiled.Run(); err != nil {
		c.fail(err)
		return 0
	}
	return c.compiled.Get("height").Float()
}

func (c *ScriptCurve) fail(err error) {
	if c.failed {
		return
	}
	c.failed = true
	log.Printf("ai: curve script %s: %v", c.name, err)
}
