// File: internal/bot/profile.go
package bot

import (
	"fmt"
	"os"

	"github.com/nullmantle/pixelpilot/internal/botconfig"
	"github.com/nullmantle/pixelpilot/internal/params"
)

// Profile is the stock bot profile shipped with the idle routine. Real
// routines declare their own structs; the container handles any struct whose
// fields are params types or primitives.
type Profile struct {
	Breaks    params.BreakConfig `cfg:"breaks"`
	StepDelay params.Span        `cfg:"step_delay"`
	StepLimit int                `cfg:"step_limit"`
}

// BreakSettings exposes the break descriptor so control-plane config
// imports can push updates into a running controller.
func (p *Profile) BreakSettings() params.BreakConfig { return p.Breaks }

// DefaultProfile returns a profile with mild humanized defaults: a short
// break of 30-90 seconds with 2% chance per proposal.
func DefaultProfile() *Profile {
	return &Profile{
		Breaks: params.BreakConfig{
			Duration: params.Span{Min: 30, Max: 90},
			Chance:   0.02,
		},
		StepDelay: params.Span{Min: 0.4, Max: 0.8},
	}
}

// LoadProfile reads a JSON profile from path over the defaults.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bot: reading profile: %w", err)
	}
	if err := botconfig.ImportJSON(p, data); err != nil {
		return nil, fmt.Errorf("bot: loading profile %s: %w", path, err)
	}
	return p, nil
}
