// File: internal/params/breakcfg.go
package params

import (
	"fmt"
	"math/rand"
)

// TagBreakConfig is the wire tag for BreakConfig values.
const TagBreakConfig = "BreakCfg"

// BreakConfig describes probabilistic breaks: a duration range in seconds
// and a per-proposal chance. Chance is nominally in [0,1] but is not clamped;
// a chance >= 1 always breaks and a chance <= 0 never does.
type BreakConfig struct {
	Duration Span
	Chance   float64
}

// NewBreakConfig builds a BreakConfig from a duration range and a chance.
func NewBreakConfig(duration Span, chance float64) BreakConfig {
	return BreakConfig{Duration: duration, Chance: chance}
}

// ShouldBreak makes a single uniform(0,1) draw against the configured
// chance. It is intentionally not idempotent.
func (b BreakConfig) ShouldBreak() bool {
	return rand.Float64() < b.Chance
}

func (b BreakConfig) TypeTag() string { return TagBreakConfig }

func (b BreakConfig) Wire() TaggedValue {
	return TaggedValue{Type: TagBreakConfig, Value: map[string]any{
		"break_duration": b.Duration.Wire().Map(),
		"break_chance":   b.Chance,
	}}
}

// ParseBreakConfig accepts the loose [[min,max], chance] form.
func ParseBreakConfig(raw any) (BreakConfig, error) {
	list, ok := asList(raw)
	if !ok || len(list) != 2 {
		return BreakConfig{}, &ParseError{Tag: TagBreakConfig, Reason: "value must be [break_duration, break_chance]"}
	}
	duration, err := ParseSpan(list[0])
	if err != nil {
		return BreakConfig{}, &ParseError{Tag: TagBreakConfig, Reason: "break_duration: " + err.Error()}
	}
	chance, ok := asFloat(list[1])
	if !ok {
		return BreakConfig{}, &ParseError{Tag: TagBreakConfig, Reason: fmt.Sprintf("break_chance %v is not a number", list[1])}
	}
	return BreakConfig{Duration: duration, Chance: chance}, nil
}

// DecodeBreakConfig decodes a tagged BreakCfg envelope. The nested duration
// may itself be tagged or bare.
func DecodeBreakConfig(tv TaggedValue) (BreakConfig, error) {
	if tv.Type != TagBreakConfig {
		return BreakConfig{}, &TagMismatchError{Want: TagBreakConfig, Got: tv.Type}
	}
	obj, ok := tv.Value.(map[string]any)
	if !ok {
		return ParseBreakConfig(tv.Value)
	}
	durParam, err := DecodeAny(TagSpan, obj["break_duration"])
	if err != nil {
		return BreakConfig{}, err
	}
	chance, ok := asFloat(obj["break_chance"])
	if !ok {
		return BreakConfig{}, &ParseError{Tag: TagBreakConfig, Reason: fmt.Sprintf("break_chance %v is not a number", obj["break_chance"])}
	}
	return BreakConfig{Duration: durParam.(Span), Chance: chance}, nil
}

func init() {
	Register(Codec{
		Tag: TagBreakConfig,
		Parse: func(raw any) (Param, error) {
			return ParseBreakConfig(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeBreakConfig(tv)
		},
	})
}
