package analysis

import (
	"github.com/JaimeStill/nanohunter/internal/options"
	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

var imageField = &openapi.Schema{Type: "string", Format: "binary"}

var docs = struct {
	Analyze   *openapi.Operation
	Normalize *openapi.Operation
}{
	Analyze: &openapi.Operation{
		OperationID: "analyzeImage",
		Summary:     "Analyze a reference image and record the generated prompts",
		Tags:        []string{"Analysis"},
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type:     "object",
			Required: []string{"image"},
			Properties: map[string]*openapi.Schema{
				"image":           imageField,
				"reference":       imageField,
				"options":         {Type: "string", Description: "JSON object of preservation key to enabled flag"},
				"aspect_ratio":    openapi.EnumOf("Defaults to 1:1", options.AspectRatios()...),
				"subject_mode":    openapi.EnumOf("Defaults to HUMAN", options.SubjectModes()...),
				"user_prompt":     {Type: "string"},
				"negative_prompt": {Type: "string"},
			},
		}),
		Responses: openapi.WithResponses(
			openapi.Errors("BadRequest", "PayloadTooLarge", "UnsupportedMediaType", "BadGateway", "InternalError"),
			map[int]*openapi.Response{201: openapi.ResponseJSON("Recorded entry", "Entry")},
		),
	},
	Normalize: &openapi.Operation{
		OperationID: "normalizeImage",
		Summary:     "Downscale and re-encode an image as it would be sent for analysis",
		Tags:        []string{"Images"},
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type:       "object",
			Required:   []string{"image"},
			Properties: map[string]*openapi.Schema{"image": imageField},
		}),
		Responses: openapi.WithResponses(
			openapi.Errors("BadRequest", "PayloadTooLarge", "UnsupportedMediaType"),
			map[int]*openapi.Response{200: openapi.ResponseBinary("Normalized JPEG", "image/jpeg")},
		),
	},
}
