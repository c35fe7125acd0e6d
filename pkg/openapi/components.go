package openapi

import (
	"maps"
	"net/http"
)

// errorResponses are shared by every operation that can fail.
// Keys double as component names, values are the HTTP status codes they document.
var errorResponses = map[string]int{
	"BadRequest":           http.StatusBadRequest,
	"NotFound":             http.StatusNotFound,
	"PayloadTooLarge":      http.StatusRequestEntityTooLarge,
	"UnsupportedMediaType": http.StatusUnsupportedMediaType,
	"BadGateway":           http.StatusBadGateway,
	"InternalError":        http.StatusInternalServerError,
}

// NewComponents creates Components with the shared error schema and responses.
func NewComponents() *Components {
	responses := make(map[string]*Response, len(errorResponses))
	for name, status := range errorResponses {
		responses[name] = &Response{
			Description: http.StatusText(status),
			Content: map[string]*MediaType{
				"application/json": {Schema: SchemaRef("Error")},
			},
		}
	}

	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: responses,
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

// Errors returns component references for the named error responses keyed by status.
// Unknown names are skipped.
func Errors(names ...string) map[int]*Response {
	out := make(map[int]*Response, len(names))
	for _, name := range names {
		if status, ok := errorResponses[name]; ok {
			out[status] = ResponseRef(name)
		}
	}
	return out
}
