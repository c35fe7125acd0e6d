package history

import (
	"github.com/JaimeStill/nanohunter/internal/options"
	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

var idParam = openapi.PathParam("id", "Entry ID")

var docs = struct {
	List     *openapi.Operation
	Clear    *openapi.Operation
	Restore  *openapi.Operation
	Download *openapi.Operation
	Schemas  map[string]*openapi.Schema
}{
	List: &openapi.Operation{
		OperationID: "listHistory",
		Summary:     "List recorded analyses, newest first",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Entries",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf("Entry")},
				},
			},
		},
	},
	Clear: &openapi.Operation{
		OperationID: "clearHistory",
		Summary:     "Remove every entry and the persisted ledger",
		Responses: openapi.WithResponses(
			openapi.Errors("InternalError"),
			map[int]*openapi.Response{204: {Description: "Cleared"}},
		),
	},
	Restore: &openapi.Operation{
		OperationID: "restoreHistoryEntry",
		Summary:     "Return one entry for rehydrating client state",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: openapi.WithResponses(
			openapi.Errors("NotFound"),
			map[int]*openapi.Response{200: openapi.ResponseJSON("Restored entry", "RestoreResponse")},
		),
	},
	Download: &openapi.Operation{
		OperationID: "downloadPrompt",
		Summary:     "Download the primary or secondary prompt as a text file",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.QueryParam("lang", "Prompt language", false, openapi.EnumOf("Defaults to primary", "primary", "secondary")),
		},
		Responses: openapi.WithResponses(
			openapi.Errors("BadRequest", "NotFound"),
			map[int]*openapi.Response{200: openapi.ResponseBinary("Prompt text", "text/plain")},
		),
	},
	Schemas: map[string]*openapi.Schema{
		"Outputs": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"analysis":         {Type: "string"},
				"prompt_primary":   {Type: "string"},
				"prompt_secondary": {Type: "string"},
			},
		},
		"Entry": {
			Type:     "object",
			Required: []string{"id", "created_at", "outputs", "aspect_ratio", "subject_mode"},
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"created_at":   {Type: "string", Format: "date-time"},
				"source_name":  {Type: "string"},
				"outputs":      openapi.SchemaRef("Outputs"),
				"aspect_ratio": openapi.EnumOf("", options.AspectRatios()...),
				"subject_mode": openapi.EnumOf("", options.SubjectModes()...),
			},
		},
		"RestoreResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"entry": openapi.SchemaRef("Entry"),
				"note":  {Type: "string", Example: RestoreNote},
			},
		},
	},
}
