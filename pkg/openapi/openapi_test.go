package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should be initialized")
	}

	spec.AddServer("/api")
	spec.SetDescription("A test API")
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")

	get := &openapi.Operation{Summary: "list"}
	del := &openapi.Operation{Summary: "clear"}
	spec.AddOperation("GET", "/history", get)
	spec.AddOperation("delete", "/history", del)
	spec.AddOperation("GET", "", &openapi.Operation{Summary: "root"})
	spec.AddOperation("PATCH", "/history", &openapi.Operation{Summary: "ignored"})

	item := spec.Paths["/history"]
	if item == nil {
		t.Fatal("missing /history")
	}
	if item.Get != get || item.Delete != del {
		t.Errorf("operations not attached: %+v", item)
	}
	if item.Post != nil || item.Put != nil {
		t.Error("unsupported method should not populate any slot")
	}
	if spec.Paths["/"] == nil {
		t.Error("empty path should be documented as /")
	}
}

func TestRefs(t *testing.T) {
	if ref := openapi.SchemaRef("Entry"); ref.Ref != "#/components/schemas/Entry" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}
	if arr := openapi.ArrayOf("Entry"); arr.Type != "array" || arr.Items.Ref != "#/components/schemas/Entry" {
		t.Errorf("array: got %+v", arr)
	}
}

func TestBodiesAndResponses(t *testing.T) {
	rb := openapi.RequestBodyJSON("PresetRequest", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/PresetRequest" {
		t.Errorf("json body: got %+v", rb)
	}

	mp := openapi.RequestBodyMultipart(&openapi.Schema{Type: "object"})
	if _, ok := mp.Content["multipart/form-data"]; !ok || !mp.Required {
		t.Errorf("multipart body: got %+v", mp)
	}

	resp := openapi.ResponseJSON("Success", "Entry")
	if resp.Description != "Success" || resp.Content["application/json"].Schema.Ref != "#/components/schemas/Entry" {
		t.Errorf("json response: got %+v", resp)
	}

	bin := openapi.ResponseBinary("Image", "image/jpeg")
	schema := bin.Content["image/jpeg"].Schema
	if schema.Type != "string" || schema.Format != "binary" {
		t.Errorf("binary response schema: got %+v", schema)
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("id", "Entry ID")
	if p.In != "path" || !p.Required || p.Schema.Type != "string" {
		t.Errorf("path param: got %+v", p)
	}

	q := openapi.QueryParam("lang", "Prompt language", false, openapi.EnumOf("", "primary", "secondary"))
	if q.In != "query" || q.Required {
		t.Errorf("query param: got %+v", q)
	}
	if len(q.Schema.Enum) != 2 || q.Schema.Enum[1] != "secondary" {
		t.Errorf("enum: got %v", q.Schema.Enum)
	}
}

func TestComponentsAndErrors(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "UnsupportedMediaType", "BadGateway", "InternalError"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Entry": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Conflict": {Description: "Conflict"}})
	if _, ok := c.Schemas["Entry"]; !ok {
		t.Error("Entry schema not added")
	}
	if _, ok := c.Responses["BadRequest"]; !ok {
		t.Error("default responses should survive AddResponses")
	}

	errs := openapi.Errors("BadRequest", "BadGateway", "Teapot")
	if len(errs) != 2 {
		t.Fatalf("errors: got %d entries, want 2", len(errs))
	}
	if errs[http.StatusBadGateway].Ref != "#/components/responses/BadGateway" {
		t.Errorf("502 ref: got %s", errs[http.StatusBadGateway].Ref)
	}

	merged := openapi.WithResponses(errs, map[int]*openapi.Response{
		http.StatusOK: {Description: "OK"},
	})
	if len(merged) != 3 || len(errs) != 2 {
		t.Errorf("merge should copy: merged=%d original=%d", len(merged), len(errs))
	}
}

func TestMarshalAndServe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddOperation("GET", "/options", &openapi.Operation{
		Responses: map[int]*openapi.Response{200: {Description: "OK"}},
	})

	data, err := spec.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("spec should be indented")
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed struct {
		OpenAPI string                                `json:"openapi"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
	if parsed.OpenAPI != "3.1.0" {
		t.Errorf("openapi: got %s", parsed.OpenAPI)
	}
	if _, ok := parsed.Paths["/options"]["get"]; !ok {
		t.Errorf("paths: got %v", parsed.Paths)
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Title != "NanoHUNTER API" {
		t.Errorf("title: got %s, want NanoHUNTER API", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description should have a default")
	}
}

func TestConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_TITLE", "Custom API")
	t.Setenv("TEST_DESC", "Custom desc")

	cfg := openapi.Config{}
	err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_TITLE", Description: "TEST_DESC"})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Title != "Custom API" || cfg.Description != "Custom desc" {
		t.Errorf("got %+v", cfg)
	}
}

func TestConfigMerge(t *testing.T) {
	base := openapi.Config{Title: "Base", Description: "kept"}
	base.Merge(&openapi.Config{Title: "Overlay", Servers: []string{"/edge"}})

	if base.Title != "Overlay" || base.Description != "kept" {
		t.Errorf("got %+v", base)
	}
	if len(base.Servers) != 1 || base.Servers[0] != "/edge" {
		t.Errorf("servers: got %v", base.Servers)
	}
}

func TestConfigFinalizeServers(t *testing.T) {
	t.Setenv("TEST_SERVERS", " https://gateway.example.com/api , /proxy/api ,")

	cfg := openapi.Config{Title: "   "}
	if err := cfg.Finalize(&openapi.ConfigEnv{Servers: "TEST_SERVERS"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Title != "NanoHUNTER API" {
		t.Errorf("blank title should fall back to default, got %q", cfg.Title)
	}
	if len(cfg.Servers) != 2 || cfg.Servers[0] != "https://gateway.example.com/api" || cfg.Servers[1] != "/proxy/api" {
		t.Errorf("servers: got %v", cfg.Servers)
	}
}

func TestConfigValidateServers(t *testing.T) {
	tests := []struct {
		name    string
		servers []string
		wantErr bool
	}{
		{"absolute", []string{"https://api.example.com"}, false},
		{"rooted", []string{"/api"}, false},
		{"relative", []string{"api"}, true},
		{"malformed", []string{"http://[::1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := openapi.Config{Servers: tt.servers}
			err := cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	cfg := openapi.Config{Title: "Gallery API", Description: "desc", Servers: []string{"/api", "https://edge.example.com/api"}}
	spec := openapi.NewSpec("placeholder", "0.1.0")
	cfg.Apply(spec, "/api")

	if spec.Info.Title != "Gallery API" || spec.Info.Description != "desc" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 2 {
		t.Fatalf("servers: got %d, want 2 (base path not duplicated)", len(spec.Servers))
	}
	if spec.Servers[0].URL != "/api" || spec.Servers[1].URL != "https://edge.example.com/api" {
		t.Errorf("servers: got %s, %s", spec.Servers[0].URL, spec.Servers[1].URL)
	}
}
