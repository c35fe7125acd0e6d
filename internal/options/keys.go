package options

import (
	"encoding/json"
	"slices"
)

// Key names a single preservation toggle. Values match the JSON field
// names used by clients and persisted option sets.
type Key string

// Shared scene traits.
const (
	KeyBackground  Key = "background"
	KeyLighting    Key = "lighting"
	KeyColors      Key = "colors"
	KeyCameraAngle Key = "cameraAngle"
	KeyArtStyle    Key = "artStyle"
	KeyMood        Key = "mood"
	KeyTime        Key = "time"
	KeyWeather     Key = "weather"
)

// Traits of a depicted person.
const (
	KeyFace        Key = "face"
	KeyHairStyle   Key = "hairStyle"
	KeyHairColor   Key = "hairColor"
	KeyEyeColor    Key = "eyeColor"
	KeyGaze        Key = "gaze"
	KeySkinTexture Key = "skinTexture"
	KeyMakeup      Key = "makeup"
	KeyBodyType    Key = "bodyType"
	KeyPose        Key = "pose"
	KeyClothes     Key = "clothes"
	KeyAccessories Key = "accessories"
	KeyHands       Key = "hands"
	KeyAge         Key = "age"
)

// Traits of objects and scenery.
const (
	KeyMaterial     Key = "material"
	KeyTexture      Key = "texture"
	KeyGeometry     Key = "geometry"
	KeyReflections  Key = "reflections"
	KeyTransparency Key = "transparency"
	KeyWearAndTear  Key = "wearAndTear"
	KeyTypography   Key = "typography"
	KeyBranding     Key = "branding"
	KeyPattern      Key = "pattern"
	KeyArchitecture Key = "architecture"
	KeyNature       Key = "nature"
	KeyPerspective  Key = "perspective"
)

// Capture and rendering traits.
const (
	KeyDepthOfField Key = "depthOfField"
	KeyLens         Key = "lens"
	KeyShutterSpeed Key = "shutterSpeed"
	KeyFilmGrain    Key = "filmGrain"
	KeyContrast     Key = "contrast"
	KeyEra          Key = "era"
	KeyProps        Key = "props"
)

// Group is presentation metadata that clusters keys in the catalog.
type Group string

// Key groups.
const (
	GroupShared    Group = "shared"
	GroupHuman     Group = "human"
	GroupObject    Group = "object"
	GroupTechnical Group = "technical"
)

// Descriptor describes one key for clients rendering the option catalog.
type Descriptor struct {
	Key     Key    `json:"key"`
	Group   Group  `json:"group"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

var catalog = []Descriptor{
	{Key: KeyBackground, Group: GroupShared, Label: "Background", Default: false},
	{Key: KeyLighting, Group: GroupShared, Label: "Lighting", Default: false},
	{Key: KeyColors, Group: GroupShared, Label: "Color palette", Default: false},
	{Key: KeyCameraAngle, Group: GroupShared, Label: "Camera angle", Default: false},
	{Key: KeyArtStyle, Group: GroupShared, Label: "Art style", Default: false},
	{Key: KeyMood, Group: GroupShared, Label: "Mood", Default: false},
	{Key: KeyTime, Group: GroupShared, Label: "Time of day", Default: false},
	{Key: KeyWeather, Group: GroupShared, Label: "Weather", Default: false},
	{Key: KeyFace, Group: GroupHuman, Label: "Face identity", Default: true},
	{Key: KeyHairStyle, Group: GroupHuman, Label: "Hair style", Default: true},
	{Key: KeyHairColor, Group: GroupHuman, Label: "Hair color", Default: true},
	{Key: KeyEyeColor, Group: GroupHuman, Label: "Eye color", Default: false},
	{Key: KeyGaze, Group: GroupHuman, Label: "Gaze direction", Default: true},
	{Key: KeySkinTexture, Group: GroupHuman, Label: "Skin texture", Default: false},
	{Key: KeyMakeup, Group: GroupHuman, Label: "Makeup", Default: false},
	{Key: KeyBodyType, Group: GroupHuman, Label: "Body type", Default: true},
	{Key: KeyPose, Group: GroupHuman, Label: "Pose", Default: true},
	{Key: KeyClothes, Group: GroupHuman, Label: "Clothing", Default: false},
	{Key: KeyAccessories, Group: GroupHuman, Label: "Accessories", Default: false},
	{Key: KeyHands, Group: GroupHuman, Label: "Hands and fingers", Default: false},
	{Key: KeyAge, Group: GroupHuman, Label: "Apparent age", Default: false},
	{Key: KeyMaterial, Group: GroupObject, Label: "Material", Default: false},
	{Key: KeyTexture, Group: GroupObject, Label: "Surface texture", Default: false},
	{Key: KeyGeometry, Group: GroupObject, Label: "Geometry", Default: false},
	{Key: KeyReflections, Group: GroupObject, Label: "Reflections", Default: false},
	{Key: KeyTransparency, Group: GroupObject, Label: "Transparency", Default: false},
	{Key: KeyWearAndTear, Group: GroupObject, Label: "Wear and tear", Default: false},
	{Key: KeyTypography, Group: GroupObject, Label: "Typography", Default: false},
	{Key: KeyBranding, Group: GroupObject, Label: "Branding", Default: false},
	{Key: KeyPattern, Group: GroupObject, Label: "Pattern", Default: false},
	{Key: KeyArchitecture, Group: GroupObject, Label: "Architecture", Default: false},
	{Key: KeyNature, Group: GroupObject, Label: "Vegetation and terrain", Default: false},
	{Key: KeyPerspective, Group: GroupObject, Label: "Perspective", Default: false},
	{Key: KeyDepthOfField, Group: GroupTechnical, Label: "Depth of field", Default: false},
	{Key: KeyLens, Group: GroupTechnical, Label: "Lens", Default: false},
	{Key: KeyShutterSpeed, Group: GroupTechnical, Label: "Shutter speed", Default: false},
	{Key: KeyFilmGrain, Group: GroupTechnical, Label: "Film grain", Default: false},
	{Key: KeyContrast, Group: GroupTechnical, Label: "Contrast", Default: false},
	{Key: KeyEra, Group: GroupTechnical, Label: "Era", Default: false},
	{Key: KeyProps, Group: GroupTechnical, Label: "Props", Default: false},
}

var keys = func() []Key {
	ks := make([]Key, len(catalog))
	for i, d := range catalog {
		ks[i] = d.Key
	}
	return ks
}()

// Catalog returns every preservation key in display order.
func Catalog() []Descriptor {
	return slices.Clone(catalog)
}

// Keys returns every preservation key in display order.
func Keys() []Key {
	return slices.Clone(keys)
}

// Lookup returns the descriptor for k.
func Lookup(k Key) (Descriptor, bool) {
	i := slices.IndexFunc(catalog, func(d Descriptor) bool { return d.Key == k })
	if i < 0 {
		return Descriptor{}, false
	}
	return catalog[i], true
}

// InGroup returns the keys belonging to g in display order.
func InGroup(g Group) []Key {
	var ks []Key
	for _, d := range catalog {
		if d.Group == g {
			ks = append(ks, d.Key)
		}
	}
	return ks
}

// ParseKey validates s as a known preservation key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !slices.Contains(keys, k) {
		return "", ErrUnknownKey
	}
	return k, nil
}

// UnmarshalJSON validates that the decoded string is a known key.
func (k *Key) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseKey(raw)
	if err != nil {
		return err
	}
	*k = v
	return nil
}
