package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tubeexpert/internal/seo"
	"tubeexpert/pkg/prompts"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrNoImage           = errors.New("no image in response")
)

// PackageGenerator turns request parameters into one SEO package with a
// single remote call.
type PackageGenerator interface {
	GeneratePackage(ctx context.Context, req seo.Request) (*seo.Package, error)
}

// ImageGenerator returns a data URI for the rendered thumbnail prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// DecodePackage parses model output into a package. Markdown code fences
// and text around the outermost JSON object are ignored.
func DecodePackage(content string) (*seo.Package, error) {
	content = extractJSON(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var pkg seo.Package
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrMalformedResponse, err)
	}
	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &pkg, nil
}

func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return content
	}
	return content[start : end+1]
}

// PromptParams maps a request onto the package prompt template.
func PromptParams(req seo.Request) prompts.PackageParams {
	return prompts.PackageParams{
		Topic:         strings.TrimSpace(req.Topic),
		Language:      strings.TrimSpace(req.Language),
		ChannelName:   strings.TrimSpace(req.ChannelName),
		TargetCountry: strings.TrimSpace(req.TargetCountry),
		VideoType:     string(req.EffectiveVideoType()),
		UploadTime:    strings.TrimSpace(req.UploadTime),
		Shorts:        req.ShortsMode,
	}
}
