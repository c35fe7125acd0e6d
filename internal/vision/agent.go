package vision

import (
	"context"
	"fmt"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

type agentClient struct {
	cfg *gaconfig.AgentConfig
}

func newAgentClient(cfg *gaconfig.AgentConfig) Client {
	return &agentClient{cfg: cfg}
}

// Describe creates a fresh agent per call so concurrent requests share no
// conversation state.
func (c *agentClient) Describe(ctx context.Context, req Request) (string, error) {
	a, err := agent.New(c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	uris := make([]string, 0, len(req.Images))
	for i, img := range req.Images {
		uri, err := encoding.EncodeImageDataURI(img.Bytes(), document.JPEG)
		if err != nil {
			return "", fmt.Errorf("encode image %d: %w", i+1, err)
		}
		uris = append(uris, uri)
	}

	resp, err := a.Vision(ctx, req.Instruction, uris)
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	return resp.Content(), nil
}
