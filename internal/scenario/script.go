package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/join"
	"github.com/phanxgames/join/ease"
)

// Step actions.
const (
	ActionBind    = "bind"
	ActionAdvance = "advance"
	ActionDump    = "dump"
	ActionWait    = "wait"
)

// Step is a single action in a script.
type Step struct {
	Action string   `yaml:"action"`
	Label  string   `yaml:"label,omitempty"`
	Batch  []Person `yaml:"batch,omitempty"`
	// Dt is the clock step of an advance. Frames repeats it.
	Dt     float32 `yaml:"dt,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// Script is the top-level structure of a scenario file.
//
// Ease, Duration and Delay configure the transitions applied on every bind.
// FrameDt is the clock step of a wait frame. Zero values take the defaults
// of the join package and 1/60s.
type Script struct {
	Ease     string  `yaml:"ease,omitempty"`
	Duration float32 `yaml:"duration,omitempty"`
	Delay    float32 `yaml:"delay,omitempty"`
	FrameDt  float32 `yaml:"frameDt,omitempty"`
	Steps    []Step  `yaml:"steps"`
}

// LoadScript parses a YAML (or JSON) scenario and fills in defaults.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

func (s *Script) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("no steps")
	}
	if s.Ease == "" {
		s.Ease = ease.Name(ease.IDLinear)
	}
	if _, ok := ease.ByName(s.Ease); !ok {
		return fmt.Errorf("unknown ease %q", s.Ease)
	}
	if s.Duration == 0 {
		s.Duration = join.DefaultDuration
	}
	if s.Duration < 0 || s.Delay < 0 {
		return fmt.Errorf("negative duration or delay")
	}
	if s.FrameDt <= 0 {
		s.FrameDt = 1.0 / 60
	}
	for i, st := range s.Steps {
		switch st.Action {
		case ActionBind, ActionDump, ActionWait:
		case ActionAdvance:
			if st.Dt <= 0 {
				return fmt.Errorf("step %d: advance needs dt > 0", i)
			}
		default:
			return fmt.Errorf("step %d: unknown action %q", i, st.Action)
		}
	}
	return nil
}
