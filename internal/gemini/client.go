package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"tubeexpert/internal/llm"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
	"tubeexpert/pkg/prompts"
)

var (
	_ llm.PackageGenerator = (*Client)(nil)
	_ llm.ImageGenerator   = (*Client)(nil)
)

type Options struct {
	APIKey      string
	Model       string
	ImageModel  string
	AspectRatio string
	// Grounding enables Google Search. The response schema is then sent
	// inside the prompt because search tools and schemas cannot be combined.
	Grounding  bool
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	client      *genai.Client
	model       string
	imageModel  string
	aspectRatio string
	grounding   bool
	prompts     *prompts.Prompts
}

func NewClient(ctx context.Context, opts Options, p *prompts.Prompts) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("create gemini client: %w", config.ErrMissingAPIKey)
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:      client,
		model:       opts.Model,
		imageModel:  opts.ImageModel,
		aspectRatio: opts.AspectRatio,
		grounding:   opts.Grounding,
		prompts:     p,
	}, nil
}

func (c *Client) GeneratePackage(ctx context.Context, req seo.Request) (*seo.Package, error) {
	params := llm.PromptParams(req)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: c.prompts.System.Package}},
		},
	}

	var (
		prompt string
		err    error
	)
	if c.grounding {
		prompt, err = c.prompts.RenderPackageWithSchema(params, true)
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else {
		prompt, err = c.prompts.RenderPackage(params)
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = packageSchema
	}
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	pkg, err := llm.DecodePackage(responseText(resp))
	if err != nil {
		return nil, err
	}

	if c.grounding {
		pkg.Sources = groundingSources(resp)
	}
	return pkg, nil
}

// GenerateImage renders the thumbnail prompt and returns the first inline
// image as a data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	text, err := c.prompts.RenderThumbnail(prompts.ThumbnailParams{
		Prompt:      strings.TrimSpace(prompt),
		AspectRatio: c.aspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: c.aspectRatio},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, genai.Text(text), cfg)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return DataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
	}

	return "", llm.ErrNoImage
}

func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func groundingSources(resp *genai.GenerateContentResponse) []seo.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var sources []seo.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true

		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, seo.Source{Title: title, URI: chunk.Web.URI})
	}
	return sources
}
