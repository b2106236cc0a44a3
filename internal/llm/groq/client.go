package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"tubeexpert/internal/llm"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
	"tubeexpert/pkg/prompts"
)

var _ llm.PackageGenerator = (*Client)(nil)

type Client struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
}

func NewClient(apiKey, model, baseURL string, p *prompts.Prompts) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("create groq client: %w", config.ErrMissingAPIKey)
	}

	var (
		client *groq.Client
		err    error
	)
	if baseURL != "" {
		client, err = groq.NewClient(apiKey, groq.WithBaseURL(baseURL))
	} else {
		client, err = groq.NewClient(apiKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
	}, nil
}

func (c *Client) GeneratePackage(ctx context.Context, req seo.Request) (*seo.Package, error) {
	prompt, err := c.prompts.RenderPackageWithSchema(llm.PromptParams(req), false)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.generateJSONContent(ctx, c.prompts.System.Package, prompt)
	if err != nil {
		return nil, err
	}

	return llm.DecodePackage(content)
}

func (c *Client) generateJSONContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
		ResponseFormat: &groq.ChatResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response", llm.ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty response", llm.ErrMalformedResponse)
	}

	return content, nil
}
