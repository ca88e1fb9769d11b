package ai

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("ai: invalid config")

const (
	defaultCapsuleHalfLength    = 500.0
	defaultCapsuleRadius        = 250.0
	defaultCapsuleForwardOffset = 100.0
	defaultJumpApexHeight       = 300.0
	defaultJumpSpeed            = 1.0
	defaultJumpDuration         = 1.0
	defaultFleeMaxThreatAngle   = 45.0
)

// Config tunes a Controller. Zero-valued YAML fields keep their defaults
// when loaded through LoadConfig.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Jump      JumpConfig      `yaml:"jump"`
	// FleeMaxThreatAngle is the minimum angle in degrees between the first
	// step of a flee path and the direction to the threat.
	FleeMaxThreatAngle float64 `yaml:"flee_max_threat_angle"`
	Debug              bool    `yaml:"debug"`
}

// DetectionConfig shapes the sensing capsule in front of the pawn.
type DetectionConfig struct {
	HalfLength    float64 `yaml:"half_length"`
	Radius        float64 `yaml:"radius"`
	ForwardOffset float64 `yaml:"forward_offset"`
}

type JumpConfig struct {
	ApexHeight float64   `yaml:"apex_height"`
	Speed      float64   `yaml:"speed"`
	Duration   float64   `yaml:"duration"`
	Curve      CurveSpec `yaml:"curve"`
}

// EffectiveDuration is the time a jump takes, Duration scaled by Speed.
func (j JumpConfig) EffectiveDuration() float64 {
	d := j.Duration
	if d <= 0 {
		d = defaultJumpDuration
	}
	s := j.Speed
	if s <= 0 {
		s = defaultJumpSpeed
	}
	return d / s
}

func DefaultConfig() Config {
	return Config{
		Detection: DetectionConfig{
			HalfLength:    defaultCapsuleHalfLength,
			Radius:        defaultCapsuleRadius,
			ForwardOffset: defaultCapsuleForwardOffset,
		},
		Jump: JumpConfig{
			ApexHeight: defaultJumpApexHeight,
			Speed:      defaultJumpSpeed,
			Duration:   defaultJumpDuration,
		},
		FleeMaxThreatAngle: defaultFleeMaxThreatAngle,
	}
}

func (c Config) Validate() error {
	if c.Detection.HalfLength < 0 {
		return fmt.Errorf("%w: detection half_length %v", ErrInvalidConfig, c.Detection.HalfLength)
	}
	if c.Detection.Radius < 0 {
		return fmt.Errorf("%w: detection radius %v", ErrInvalidConfig, c.Detection.Radius)
	}
	if c.Jump.Duration < 0 {
		return fmt.Errorf("%w: jump duration %v", ErrInvalidConfig, c.Jump.Duration)
	}
	if c.Jump.Speed < 0 {
		return fmt.Errorf("%w: jump speed %v", ErrInvalidConfig, c.Jump.Speed)
	}
	if c.FleeMaxThreatAngle < 0 || c.FleeMaxThreatAngle > 180 {
		return fmt.Errorf("%w: flee_max_threat_angle %v", ErrInvalidConfig, c.FleeMaxThreatAngle)
	}
	return c.Jump.Curve.validate()
}

// LoadConfig decodes YAML over DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("ai: unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
