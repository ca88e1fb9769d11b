package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/pursuit/ai"
)

const (
	DefaultAgentSpec = "agent.yaml"

	defaultPickupRadius   = 50.0
	defaultPickupCooldown = 10.0
	defaultAgentSpeed     = 600.0
	defaultAgentRadius    = 40.0
)

var ErrInvalidLevel = errors.New("prefabs: invalid level")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AgentSpec tunes a pursuit agent. AI holds the controller config; the rest
// is consumed by the arena systems.
type AgentSpec struct {
	Name      string    `yaml:"name"`
	MoveSpeed float64   `yaml:"move_speed"`
	Radius    float64   `yaml:"radius"`
	AI        ai.Config `yaml:"ai"`
}

func defaultAgentSpec() AgentSpec {
	return AgentSpec{
		MoveSpeed: defaultAgentSpeed,
		Radius:    defaultAgentRadius,
		AI:        ai.DefaultConfig(),
	}
}

// ParseAgentSpec decodes data over the agent defaults.
func ParseAgentSpec(data []byte) (AgentSpec, error) {
	spec := defaultAgentSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: unmarshal agent spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return AgentSpec{}, err
	}
	return spec, nil
}

func LoadAgentSpec(filename string) (AgentSpec, error) {
	if filename == "" {
		filename = DefaultAgentSpec
	}
	data, err := Load(filename)
	if err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := ParseAgentSpec(data)
	if err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

func (s AgentSpec) Validate() error {
	if s.MoveSpeed <= 0 {
		return fmt.Errorf("%w: agent move_speed %v", ai.ErrInvalidConfig, s.MoveSpeed)
	}
	if s.Radius < 0 {
		return fmt.Errorf("%w: agent radius %v", ai.ErrInvalidConfig, s.Radius)
	}
	return s.AI.Validate()
}

// CellSpec addresses a level cell by column and row.
type CellSpec struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

type JumpLinkSpec struct {
	From CellSpec `yaml:"from"`
	To   CellSpec `yaml:"to"`
	// Bidirectional adds the reverse link as well.
	Bidirectional bool `yaml:"bidirectional"`
}

type PlayerSpec struct {
	MoveSpeed    float64    `yaml:"move_speed"`
	Radius       float64    `yaml:"radius"`
	Patrol       []CellSpec `yaml:"patrol"`
	StartPowered bool       `yaml:"start_powered"`
	PoweredFor   float64    `yaml:"powered_for"`
	UnpoweredFor float64    `yaml:"unpowered_for"`
}

type PickupSpec struct {
	Radius   float64 `yaml:"radius"`
	Cooldown float64 `yaml:"cooldown"`
}

// AgentRefSpec names one agent placed on an A cell. Overrides are decoded
// over the level's agent spec.
type AgentRefSpec struct {
	Name      string         `yaml:"name"`
	Overrides map[string]any `yaml:"overrides"`
}

// LevelSpec is an ASCII arena: '#' wall, '.' floor, '~' gap, 'C' pickup,
// 'F' flee point, 'A' agent, 'P' player. Row 0 is the first line.
type LevelSpec struct {
	Name      string         `yaml:"name"`
	CellSize  float64        `yaml:"cell_size"`
	Rows      []string       `yaml:"rows"`
	JumpLinks []JumpLinkSpec `yaml:"jump_links"`
	Player    PlayerSpec     `yaml:"player"`
	Pickup    PickupSpec     `yaml:"pickup"`
	AgentSpec string         `yaml:"agent_spec"`
	Agents    []AgentRefSpec `yaml:"agents"`
}

func LoadLevelSpec(name string) (LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](levelPath(name))
	if err != nil {
		return LevelSpec{}, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return LevelSpec{}, fmt.Errorf("prefabs: level %s: %w", name, err)
	}
	return spec, nil
}

func (l *LevelSpec) applyDefaults() {
	if l.Pickup.Radius <= 0 {
		l.Pickup.Radius = defaultPickupRadius
	}
	if l.Pickup.Cooldown <= 0 {
		l.Pickup.Cooldown = defaultPickupCooldown
	}
	if l.AgentSpec == "" {
		l.AgentSpec = DefaultAgentSpec
	}
}

// Size returns the grid dimensions. Short rows are padded with walls.
func (l LevelSpec) Size() (cols, rows int) {
	for _, r := range l.Rows {
		cols = max(cols, len(r))
	}
	return cols, len(l.Rows)
}

// Cell returns the glyph at col,row; out of range cells read as walls.
func (l LevelSpec) Cell(col, row int) byte {
	if row < 0 || row >= len(l.Rows) || col < 0 || col >= len(l.Rows[row]) {
		return '#'
	}
	return l.Rows[row][col]
}

func (l LevelSpec) Validate() error {
	if l.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size %v", ErrInvalidLevel, l.CellSize)
	}
	cols, rows := l.Size()
	if cols == 0 || rows == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidLevel)
	}
	players, agents := 0, 0
	for r := range rows {
		for c := range cols {
			switch g := l.Cell(c, r); g {
			case '#', '.', '~', 'C', 'F':
			case 'P':
				players++
			case 'A':
				agents++
			default:
				return fmt.Errorf("%w: unknown cell %q at %d,%d", ErrInvalidLevel, g, c, r)
			}
		}
	}
	if players > 1 {
		return fmt.Errorf("%w: %d players", ErrInvalidLevel, players)
	}
	if len(l.Agents) > agents {
		return fmt.Errorf("%w: %d agents named for %d agent cells", ErrInvalidLevel, len(l.Agents), agents)
	}
	for _, p := range l.Player.Patrol {
		if !walkableGlyph(l.Cell(p.Col, p.Row)) {
			return fmt.Errorf("%w: patrol cell %d,%d is not walkable", ErrInvalidLevel, p.Col, p.Row)
		}
	}
	return nil
}

func walkableGlyph(g byte) bool {
	switch g {
	case '.', 'C', 'F', 'A', 'P':
		return true
	}
	return false
}
