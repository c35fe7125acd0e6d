package options

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Preservation holds one boolean per known Key. A true value asks the
// vision model to describe that trait as something that must not change.
// Values built through NewPreservation or Defaults always carry every key.
type Preservation map[Key]bool

// Defaults returns the option set a new session starts with.
func Defaults() Preservation {
	p := make(Preservation, len(catalog))
	for _, d := range catalog {
		p[d.Key] = d.Default
	}
	return p
}

// NewPreservation validates raw and fills missing keys with their defaults.
// Unknown keys fail with ErrUnknownKey.
func NewPreservation(raw map[string]bool) (Preservation, error) {
	p := Defaults()
	for name, v := range raw {
		k, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, name)
		}
		p[k] = v
	}
	return p, nil
}

// Enabled reports whether k is set.
func (p Preservation) Enabled(k Key) bool {
	return p[k]
}

// Selected returns the enabled keys in catalog order.
func (p Preservation) Selected() []Key {
	var ks []Key
	for _, k := range keys {
		if p[k] {
			ks = append(ks, k)
		}
	}
	return ks
}

// Clone returns an independent copy.
func (p Preservation) Clone() Preservation {
	return maps.Clone(p)
}

// Merge returns a copy of p with every entry of overlay applied.
func (p Preservation) Merge(overlay Preservation) Preservation {
	out := p.Clone()
	if out == nil {
		out = Defaults()
	}
	maps.Copy(out, overlay)
	return out
}

// UnmarshalJSON decodes a partial object through NewPreservation.
func (p *Preservation) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := NewPreservation(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
