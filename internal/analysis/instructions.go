package analysis

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/JaimeStill/nanohunter/internal/options"
)

// objectNegative keeps the model from hallucinating faces in object scenes.
const objectNegative = "Human face, eyes, skin, flesh, body parts, portrait, person"

// FaceStrategy decides how the subject's face is treated in HUMAN mode.
type FaceStrategy string

// Face strategies.
const (
	FaceStrict FaceStrategy = "strict"
	FaceSwap   FaceStrategy = "swap"
	FaceSoft   FaceStrategy = "soft"
)

// SelectFaceStrategy picks the strategy for HUMAN mode. A reference face
// only takes effect when the subject's own face is not being preserved.
func SelectFaceStrategy(p options.Preservation, hasReference bool) FaceStrategy {
	switch {
	case p.Enabled(options.KeyFace):
		return FaceStrict
	case hasReference:
		return FaceSwap
	default:
		return FaceSoft
	}
}

var faceDirectives = map[FaceStrategy]string{
	FaceStrict: "STRICT ID. Preserve the face, biometric features and identity of the person in the style image exactly.",
	FaceSwap:   "FACE SWAP. The second image is the reference face. Keep the body of the style image and replace the head with the reference.",
	FaceSoft:   "SOFT PRESERVE. Do not distort the original facial features and do not invent a random face.",
}

// directive is the wording for one key: on when preserved, off otherwise.
// An empty off value omits the key when it is not preserved.
type directive struct {
	key options.Key
	on  string
	off string
}

var humanProtocol = []directive{
	{options.KeyFace, "keep", "flexible"},
	{options.KeyHairStyle, "keep the hair style", ""},
	{options.KeyHairColor, "keep the hair color", ""},
	{options.KeyEyeColor, "keep the eye color", ""},
	{options.KeyGaze, "keep the gaze direction", ""},
	{options.KeySkinTexture, "keep texture, moles, freckles and pores", "may be smoothed"},
	{options.KeyBodyType, "keep the body type and anatomy", "standard"},
	{options.KeyPose, "keep the pose", ""},
	{options.KeyHands, "keep hand and finger positions precisely", "automatic"},
	{options.KeyMakeup, "keep the makeup style", ""},
	{options.KeyAge, "keep the apparent age", ""},
	{options.KeyClothes, "keep clothing details", ""},
	{options.KeyAccessories, "keep accessories", ""},
}

var objectProtocol = []directive{
	{options.KeyMaterial, "analyze the material physics (metal, wood, plastic) in full", "free"},
	{options.KeyTexture, "keep surface roughness and texture", "free"},
	{options.KeyGeometry, "keep form, edges and silhouette", "free"},
	{options.KeyReflections, "keep reflections, glass and water effects and refraction", "free"},
	{options.KeyTransparency, "keep transparency and opacity ratios", "free"},
	{options.KeyWearAndTear, "keep dirt, rust, scratches and signs of age", "clean up"},
	{options.KeyTypography, "keep the lettering and fonts", ""},
	{options.KeyBranding, "keep logos", ""},
	{options.KeyPattern, "keep repeating motifs", "free"},
	{options.KeyPerspective, "keep vanishing points and depth", "free"},
}

var environmentProtocol = []directive{
	{options.KeyBackground, "keep the background", ""},
	{options.KeyNature, "keep vegetation and terrain", ""},
	{options.KeyArchitecture, "keep the architecture", ""},
	{options.KeyTime, "keep the time of day", ""},
	{options.KeyWeather, "keep the weather", ""},
}

var atmosphereProtocol = []directive{
	{options.KeyLighting, "keep the lighting", ""},
	{options.KeyColors, "keep the colors", ""},
	{options.KeyMood, "keep the mood", ""},
	{options.KeyArtStyle, "keep the art style", ""},
	{options.KeyEra, "keep the era", ""},
}

var technicalProtocol = []directive{
	{options.KeyCameraAngle, "keep the camera angle", ""},
	{options.KeyDepthOfField, "keep focus and blur", ""},
	{options.KeyLens, "keep the lens focal length", ""},
	{options.KeyShutterSpeed, "keep the shutter speed look", ""},
	{options.KeyFilmGrain, "keep the film grain", ""},
	{options.KeyContrast, "keep the contrast", ""},
	{options.KeyProps, "keep the props", ""},
}

// Instruction carries everything that shapes the text sent with the images.
type Instruction struct {
	Mode              options.SubjectMode
	Preservation      options.Preservation
	HasReference      bool
	AspectRatio       options.AspectRatio
	UserPrompt        string
	NegativePrompt    string
	SecondaryLanguage string
}

type protocolLine struct {
	Label string
	Text  string
}

type instructionView struct {
	Human             bool
	Face              string
	Protocol          []protocolLine
	Environment       string
	Atmosphere        string
	Technical         string
	AspectRatio       options.AspectRatio
	UserPrompt        string
	Negative          string
	SecondaryLanguage string
}

var instructionTmpl = template.Must(template.New("instruction").Parse(`You are NanoHUNTER, a visual analysis assistant.
{{if .Human}}
MODE: HUMAN / PORTRAIT
FACE: {{.Face}}

HUMAN PROTOCOL:
{{- range .Protocol}}
- {{.Label}}: {{.Text}}
{{- end}}
{{else}}
MODE: OBJECT / SCENERY / ABSTRACT
IMPORTANT: This image contains NO human face and none may be introduced. Do not read faces into shapes. Focus only on objects, structures and environment.

OBJECT PROTOCOL:
{{- range .Protocol}}
- {{.Label}}: {{.Text}}
{{- end}}
{{end}}
SHARED PROTOCOL:
- ENVIRONMENT: {{.Environment}}
- ATMOSPHERE: {{.Atmosphere}}
- TECHNICAL: {{.Technical}}

TARGET ASPECT RATIO: {{.AspectRatio}}
USER NOTE: "{{.UserPrompt}}"
NEGATIVE PROMPT: "{{.Negative}}"

TASK:
1. Analyze the image according to the selected mode.
2. Describe every trait marked for preservation in detail.
3. Write an image generation prompt in English (prompt_primary) and in {{.SecondaryLanguage}} (prompt_secondary).
4. Use technical terms (cinematic lighting, octane render, 8k textures).

Respond with JSON only:
{
  "analysis": "summary of the analysis",
  "prompt_primary": "prompt text in English",
  "prompt_secondary": "prompt text in {{.SecondaryLanguage}}"
}
`))

// Compose renders the instruction text for in.
func Compose(in Instruction) (string, error) {
	p := in.Preservation
	if p == nil {
		p = options.Defaults()
	}

	view := instructionView{
		Human:             in.Mode != options.ModeObject,
		Environment:       joinEnabled(p, environmentProtocol),
		Atmosphere:        joinEnabled(p, atmosphereProtocol),
		Technical:         joinEnabled(p, technicalProtocol),
		AspectRatio:       in.AspectRatio,
		UserPrompt:        in.UserPrompt,
		SecondaryLanguage: in.SecondaryLanguage,
	}

	if view.AspectRatio == "" {
		view.AspectRatio = options.DefaultRatio
	}
	if view.SecondaryLanguage == "" {
		view.SecondaryLanguage = DefaultSecondaryLanguage
	}

	negative := strings.TrimSpace(in.NegativePrompt)
	if view.Human {
		view.Face = faceDirectives[SelectFaceStrategy(p, in.HasReference)]
		view.Protocol = protocolLines(p, humanProtocol)
	} else {
		view.Protocol = protocolLines(p, objectProtocol)
		negative = strings.TrimSpace(negative + " " + objectNegative)
	}
	view.Negative = negative

	var b strings.Builder
	if err := instructionTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render instruction: %w", err)
	}
	return b.String(), nil
}

func protocolLines(p options.Preservation, ds []directive) []protocolLine {
	lines := make([]protocolLine, 0, len(ds))
	for _, d := range ds {
		text := d.off
		if p.Enabled(d.key) {
			text = d.on
		}
		if text == "" {
			continue
		}
		lines = append(lines, protocolLine{Label: label(d.key), Text: text})
	}
	return lines
}

func joinEnabled(p options.Preservation, ds []directive) string {
	var parts []string
	for _, d := range ds {
		if p.Enabled(d.key) {
			parts = append(parts, d.on)
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, "; ")
}

func label(k options.Key) string {
	if d, ok := options.Lookup(k); ok {
		return strings.ToUpper(d.Label)
	}
	return strings.ToUpper(string(k))
}
