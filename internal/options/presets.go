package options

import "slices"

// Preset is a named bulk change to a Preservation set.
type Preset string

// Available presets.
const (
	PresetDefault Preset = "default"
	PresetMax     Preset = "max"
	PresetReset   Preset = "reset"
)

var presets = []Preset{PresetDefault, PresetMax, PresetReset}

// Presets returns the available preset names.
func Presets() []Preset {
	return slices.Clone(presets)
}

// ParsePreset validates s as a known preset.
func ParsePreset(s string) (Preset, error) {
	v := Preset(s)
	if !slices.Contains(presets, v) {
		return "", ErrUnknownPreset
	}
	return v, nil
}

var defaultPresets = map[SubjectMode][]Key{
	ModeHuman:  {KeyFace, KeyHairStyle, KeySkinTexture, KeyPose, KeyLighting},
	ModeObject: {KeyMaterial, KeyGeometry, KeyTexture, KeyLighting, KeyPerspective},
}

// Overlay returns only the keys the preset changes for mode.
// The default preset turns its keys on and leaves the rest untouched.
func (p Preset) Overlay(mode SubjectMode) Preservation {
	overlay := make(Preservation)

	switch p {
	case PresetDefault:
		for _, k := range defaultPresets[mode] {
			overlay[k] = true
		}
	case PresetMax:
		for _, k := range keys {
			overlay[k] = true
		}
	case PresetReset:
		for _, k := range keys {
			overlay[k] = false
		}
		if mode == ModeHuman {
			overlay[KeyFace] = true
		}
	}

	return overlay
}

// Apply merges the preset overlay for mode over current.
func (p Preset) Apply(mode SubjectMode, current Preservation) Preservation {
	return current.Merge(p.Overlay(mode))
}
