package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed default_prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System    SystemPrompts    `yaml:"system"`
	Package   PackagePrompts   `yaml:"package"`
	Thumbnail ThumbnailPrompts `yaml:"thumbnail"`
}

type SystemPrompts struct {
	Package string `yaml:"package"`
}

type PackagePrompts struct {
	Standard string `yaml:"standard"`
	// Grounded is prepended when web search is enabled.
	Grounded string `yaml:"grounded"`
	// Schema describes the JSON keys for backends that cannot take a
	// response schema.
	Schema string `yaml:"schema"`
}

type ThumbnailPrompts struct {
	Image string `yaml:"image"`
}

type PackageParams struct {
	Topic         string
	Language      string
	ChannelName   string
	TargetCountry string
	VideoType     string
	UploadTime    string
	Shorts        bool
}

type ThumbnailParams struct {
	Prompt      string
	AspectRatio string
}

func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parse(data)
}

// LoadOrDefault reads path and falls back to the built-in prompts when the
// file does not exist.
func LoadOrDefault(path string) (*Prompts, error) {
	p, err := LoadFrom(path)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return nil, err
}

func Default() *Prompts {
	p, err := parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return p
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	return &p, nil
}

func (p *Prompts) RenderPackage(params PackageParams) (string, error) {
	return render(p.Package.Standard, params)
}

// RenderPackageWithSchema renders the standard prompt followed by the key
// list, optionally preceded by the search instruction.
func (p *Prompts) RenderPackageWithSchema(params PackageParams, grounded bool) (string, error) {
	body, err := render(p.Package.Standard, params)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 3)
	if grounded && strings.TrimSpace(p.Package.Grounded) != "" {
		parts = append(parts, strings.TrimSpace(p.Package.Grounded))
	}
	parts = append(parts, strings.TrimSpace(body))
	if strings.TrimSpace(p.Package.Schema) != "" {
		parts = append(parts, strings.TrimSpace(p.Package.Schema))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (p *Prompts) RenderThumbnail(params ThumbnailParams) (string, error) {
	return render(p.Thumbnail.Image, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
