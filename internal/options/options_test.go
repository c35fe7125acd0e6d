package options_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/nanohunter/internal/options"
)

func TestParseAspectRatio(t *testing.T) {
	for _, r := range []string{"1:1", "16:9", "9:16", "4:3", "3:4", "21:9"} {
		got, err := options.ParseAspectRatio(r)
		require.NoError(t, err, r)
		assert.Equal(t, options.AspectRatio(r), got)
	}

	got, err := options.ParseAspectRatio("")
	require.NoError(t, err)
	assert.Equal(t, options.RatioSquare, got)

	_, err = options.ParseAspectRatio("2:1")
	assert.ErrorIs(t, err, options.ErrInvalidAspectRatio)
}

func TestAspectRatioUnmarshalJSON(t *testing.T) {
	var v struct {
		Ratio options.AspectRatio `json:"ratio"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"ratio":"21:9"}`), &v))
	assert.Equal(t, options.RatioUltraWide, v.Ratio)

	err := json.Unmarshal([]byte(`{"ratio":"5:4"}`), &v)
	assert.ErrorIs(t, err, options.ErrInvalidAspectRatio)
}

func TestSubjectMode(t *testing.T) {
	got, err := options.ParseSubjectMode("OBJECT")
	require.NoError(t, err)
	assert.Equal(t, options.ModeObject, got)

	got, err = options.ParseSubjectMode("")
	require.NoError(t, err)
	assert.Equal(t, options.ModeHuman, got)

	_, err = options.ParseSubjectMode("human")
	assert.ErrorIs(t, err, options.ErrInvalidSubjectMode)

	var m options.SubjectMode
	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Equal(t, options.ModeHuman, m)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"ANIMAL"`), &m), options.ErrInvalidSubjectMode)
}

func TestCatalog(t *testing.T) {
	catalog := options.Catalog()
	assert.Len(t, catalog, 39)

	seen := make(map[options.Key]bool)
	for _, d := range catalog {
		assert.False(t, seen[d.Key], "duplicate key %s", d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Label)
	}

	assert.Len(t, options.InGroup(options.GroupShared), 8)
	assert.Len(t, options.InGroup(options.GroupHuman), 13)
	assert.Len(t, options.InGroup(options.GroupObject), 12)
	assert.Len(t, options.InGroup(options.GroupTechnical), 7)
}

func TestDefaults(t *testing.T) {
	d := options.Defaults()
	assert.Len(t, d, len(options.Keys()))

	assert.ElementsMatch(t, []options.Key{
		options.KeyFace,
		options.KeyHairStyle,
		options.KeyHairColor,
		options.KeyGaze,
		options.KeyBodyType,
		options.KeyPose,
	}, d.Selected())
}

func TestNewPreservation(t *testing.T) {
	p, err := options.NewPreservation(map[string]bool{"face": false, "material": true})
	require.NoError(t, err)

	assert.False(t, p.Enabled(options.KeyFace))
	assert.True(t, p.Enabled(options.KeyMaterial))
	assert.True(t, p.Enabled(options.KeyPose), "missing keys take their defaults")
	assert.Len(t, p, len(options.Keys()))

	_, err = options.NewPreservation(map[string]bool{"tail": true})
	assert.ErrorIs(t, err, options.ErrUnknownKey)
	assert.Equal(t, http.StatusBadRequest, options.MapHTTPStatus(err))
}

func TestPreservationUnmarshalJSON(t *testing.T) {
	var p options.Preservation
	require.NoError(t, json.Unmarshal([]byte(`{"lens":true}`), &p))
	assert.True(t, p.Enabled(options.KeyLens))
	assert.True(t, p.Enabled(options.KeyFace))

	err := json.Unmarshal([]byte(`{"wings":true}`), &p)
	assert.ErrorIs(t, err, options.ErrUnknownKey)
}

func TestSelectedFollowsCatalogOrder(t *testing.T) {
	p, err := options.NewPreservation(map[string]bool{
		"face": false, "hairStyle": false, "hairColor": false,
		"gaze": false, "bodyType": false, "pose": false,
		"props": true, "background": true, "material": true,
	})
	require.NoError(t, err)

	assert.Equal(t, []options.Key{options.KeyBackground, options.KeyMaterial, options.KeyProps}, p.Selected())
}

func TestPresets(t *testing.T) {
	current, err := options.NewPreservation(map[string]bool{"lens": true})
	require.NoError(t, err)

	t.Run("default human merges over current", func(t *testing.T) {
		got := options.PresetDefault.Apply(options.ModeHuman, current)
		for _, k := range []options.Key{options.KeyFace, options.KeyHairStyle, options.KeySkinTexture, options.KeyPose, options.KeyLighting} {
			assert.True(t, got.Enabled(k), k)
		}
		assert.True(t, got.Enabled(options.KeyLens), "untouched keys keep their value")
		assert.True(t, got.Enabled(options.KeyGaze))
	})

	t.Run("default object", func(t *testing.T) {
		got := options.PresetDefault.Apply(options.ModeObject, current)
		for _, k := range []options.Key{options.KeyMaterial, options.KeyGeometry, options.KeyTexture, options.KeyLighting, options.KeyPerspective} {
			assert.True(t, got.Enabled(k), k)
		}
	})

	t.Run("max", func(t *testing.T) {
		got := options.PresetMax.Apply(options.ModeObject, current)
		assert.Len(t, got.Selected(), len(options.Keys()))
	})

	t.Run("reset human keeps face", func(t *testing.T) {
		got := options.PresetReset.Apply(options.ModeHuman, current)
		assert.Equal(t, []options.Key{options.KeyFace}, got.Selected())
	})

	t.Run("reset object clears everything", func(t *testing.T) {
		got := options.PresetReset.Apply(options.ModeObject, current)
		assert.Empty(t, got.Selected())
	})

	t.Run("apply does not mutate current", func(t *testing.T) {
		options.PresetMax.Apply(options.ModeHuman, current)
		assert.False(t, current.Enabled(options.KeyProps))
	})

	t.Run("nil current starts from defaults", func(t *testing.T) {
		got := options.PresetDefault.Apply(options.ModeObject, nil)
		assert.True(t, got.Enabled(options.KeyFace))
		assert.True(t, got.Enabled(options.KeyMaterial))
	})

	_, err = options.ParsePreset("minimal")
	assert.ErrorIs(t, err, options.ErrUnknownPreset)
}
