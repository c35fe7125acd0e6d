package vision

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const responseMIMEType = "application/json"

type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(ctx context.Context, cfg *GeminiConfig) (Client, error) {
	return NewGemini(ctx, cfg, nil)
}

// NewGemini creates a Client that calls the Gemini API directly.
// httpOpts may override the endpoint and is nil in normal operation.
func NewGemini(ctx context.Context, cfg *GeminiConfig, httpOpts *genai.HTTPOptions) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if httpOpts != nil {
		cc.HTTPOptions = *httpOpts
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiClient{client: client, model: cfg.Model}, nil
}

func (c *geminiClient) Describe(ctx context.Context, req Request) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Bytes(), img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
