package options

import "github.com/JaimeStill/nanohunter/pkg/openapi"

var docs = struct {
	Catalog *openapi.Operation
	Preset  *openapi.Operation
	Schemas map[string]*openapi.Schema
}{
	Catalog: &openapi.Operation{
		OperationID: "getOptionCatalog",
		Summary:     "List preservation keys, defaults, aspect ratios, subject modes, and presets",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Option catalog", "CatalogResponse"),
		},
	},
	Preset: &openapi.Operation{
		OperationID: "applyPreset",
		Summary:     "Merge a named preset over the current preservation options",
		RequestBody: openapi.RequestBodyJSON("PresetRequest", true),
		Responses: openapi.WithResponses(
			openapi.Errors("BadRequest"),
			map[int]*openapi.Response{
				200: openapi.ResponseJSON("Resulting options", "Preservation"),
			},
		),
	},
	Schemas: map[string]*openapi.Schema{
		"Preservation": {
			Type:                 "object",
			Description:          "Preservation key to enabled flag. Unknown keys are rejected.",
			AdditionalProperties: &openapi.Schema{Type: "boolean"},
		},
		"Descriptor": {
			Type:     "object",
			Required: []string{"key", "group", "label", "default"},
			Properties: map[string]*openapi.Schema{
				"key":     openapi.EnumOf("Preservation key", Keys()...),
				"group":   openapi.EnumOf("Catalog group", GroupShared, GroupHuman, GroupObject, GroupTechnical),
				"label":   {Type: "string"},
				"default": {Type: "boolean"},
			},
		},
		"CatalogResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"keys":          openapi.ArrayOf("Descriptor"),
				"defaults":      openapi.SchemaRef("Preservation"),
				"aspect_ratios": {Type: "array", Items: openapi.EnumOf("", AspectRatios()...)},
				"subject_modes": {Type: "array", Items: openapi.EnumOf("", SubjectModes()...)},
				"presets":       {Type: "array", Items: openapi.EnumOf("", Presets()...)},
			},
		},
		"PresetRequest": {
			Type:     "object",
			Required: []string{"preset"},
			Properties: map[string]*openapi.Schema{
				"preset":       openapi.EnumOf("Preset name", Presets()...),
				"subject_mode": openapi.EnumOf("Defaults to HUMAN", SubjectModes()...),
				"current":      openapi.SchemaRef("Preservation"),
			},
		},
	},
}
