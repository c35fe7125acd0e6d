// Package options defines the closed domains a user picks from when
// requesting an analysis: target aspect ratio, subject mode, and the
// preservation toggles with their presets.
package options

import (
	"encoding/json"
	"slices"
)

// AspectRatio is the target frame shape described in generated prompts.
type AspectRatio string

// Supported aspect ratios.
const (
	RatioSquare    AspectRatio = "1:1"
	RatioWide      AspectRatio = "16:9"
	RatioTall      AspectRatio = "9:16"
	RatioLandscape AspectRatio = "4:3"
	RatioPortrait  AspectRatio = "3:4"
	RatioUltraWide AspectRatio = "21:9"
)

// DefaultRatio is used when no ratio is supplied.
const DefaultRatio = RatioSquare

var ratios = []AspectRatio{
	RatioSquare,
	RatioWide,
	RatioTall,
	RatioLandscape,
	RatioPortrait,
	RatioUltraWide,
}

// AspectRatios returns the supported aspect ratios in display order.
func AspectRatios() []AspectRatio {
	return slices.Clone(ratios)
}

// ParseAspectRatio validates s. An empty string yields DefaultRatio.
func ParseAspectRatio(s string) (AspectRatio, error) {
	if s == "" {
		return DefaultRatio, nil
	}
	v := AspectRatio(s)
	if !slices.Contains(ratios, v) {
		return "", ErrInvalidAspectRatio
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known ratio.
// An empty string decodes as DefaultRatio.
func (a *AspectRatio) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseAspectRatio(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// SubjectMode selects which preservation group applies to the source image.
type SubjectMode string

// Supported subject modes.
const (
	ModeHuman  SubjectMode = "HUMAN"
	ModeObject SubjectMode = "OBJECT"
)

// DefaultMode is used when no mode is supplied.
const DefaultMode = ModeHuman

var modes = []SubjectMode{ModeHuman, ModeObject}

// SubjectModes returns the supported subject modes.
func SubjectModes() []SubjectMode {
	return slices.Clone(modes)
}

// ParseSubjectMode validates s. An empty string yields DefaultMode.
func ParseSubjectMode(s string) (SubjectMode, error) {
	if s == "" {
		return DefaultMode, nil
	}
	v := SubjectMode(s)
	if !slices.Contains(modes, v) {
		return "", ErrInvalidSubjectMode
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known mode.
// Entries persisted before subject modes existed carry no value and
// decode as DefaultMode.
func (m *SubjectMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseSubjectMode(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
