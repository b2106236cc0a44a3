package app

import (
	"context"
	"fmt"
	"log/slog"

	"tubeexpert/internal/gemini"
	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/llm"
	"tubeexpert/internal/llm/groq"
	"tubeexpert/internal/seo"
	"tubeexpert/internal/storage"
	"tubeexpert/internal/youtube"
	"tubeexpert/pkg/config"
	"tubeexpert/pkg/prompts"
)

// BuildService wires generators, controller, store and the YouTube client
// from cfg. A missing API key does not fail the build: every generation then
// reports a missing-configuration failure.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.LoadOrDefault(cfg.Prompts)
	if err != nil {
		return nil, err
	}

	generator, images := buildGenerators(ctx, cfg, p)

	controller := lifecycle.NewController(lifecycle.Options{
		Generator:       generator,
		Images:          images,
		CooldownSeconds: cfg.Lifecycle.CooldownSeconds,
	})

	service := NewService(ServiceOptions{
		Config:     cfg,
		Controller: controller,
		Defaults:   Defaults(cfg.Defaults),
	})

	store, closer, err := buildStore(ctx, cfg)
	if err != nil {
		controller.Close()
		return nil, err
	}
	service.store = store
	if closer != nil {
		service.closers = append(service.closers, closer)
	}

	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
		service.youtube = youtube.NewClient(auth)
	}

	return service, nil
}

func buildGenerators(ctx context.Context, cfg *config.Config, p *prompts.Prompts) (llm.PackageGenerator, llm.ImageGenerator) {
	var images llm.ImageGenerator
	geminiClient, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.Gemini.Model,
		ImageModel:  cfg.Gemini.ImageModel,
		AspectRatio: cfg.Gemini.AspectRatio,
		Grounding:   cfg.Gemini.Grounding,
		BaseURL:     cfg.Gemini.BaseURL,
	}, p)
	if err != nil {
		slog.Warn("Gemini client unavailable", "error", err)
		images = unavailable{err: err}
	} else {
		images = geminiClient
	}

	switch cfg.Provider {
	case config.ProviderGroq:
		groqClient, err := groq.NewClient(cfg.GroqAPIKey, cfg.Groq.Model, cfg.Groq.BaseURL, p)
		if err != nil {
			slog.Warn("Groq client unavailable", "error", err)
			return unavailable{err: err}, images
		}
		return groqClient, images
	default:
		if geminiClient == nil {
			return unavailable{err: err}, images
		}
		return geminiClient, images
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	if cfg.GCS.Enabled {
		if cfg.GCSBucket == "" {
			return nil, nil, fmt.Errorf("gcs.enabled requires GCS_BUCKET")
		}
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return gcs, gcs.Close, nil
	}
	return storage.NewLocalStorage(cfg.Output.Dir), nil, nil
}

// Defaults converts the configured form defaults into a request. Unknown
// video types fall back to the built-in default.
func Defaults(d config.DefaultsConfig) seo.Request {
	req := seo.Request{
		Language:      d.Language,
		ChannelName:   d.ChannelName,
		TargetCountry: d.TargetCountry,
		UploadTime:    d.UploadTime,
		ShortsMode:    d.ShortsMode,
	}
	if d.VideoType != "" {
		vt, err := seo.ParseVideoType(d.VideoType)
		if err != nil {
			slog.Warn("Ignoring configured video type", "error", err)
		} else {
			req.VideoType = vt
		}
	}
	return req
}

// unavailable stands in for a generator that could not be constructed.
type unavailable struct {
	err error
}

func (u unavailable) GeneratePackage(ctx context.Context, req seo.Request) (*seo.Package, error) {
	return nil, u.err
}

func (u unavailable) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return "", u.err
}
