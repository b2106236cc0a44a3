package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
	"tubeexpert/internal/storage"
	"tubeexpert/internal/youtube"
)

var ErrYouTubeNotConfigured = errors.New("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set")

// Pipeline runs blocking generations for the terminal commands.
type Pipeline struct {
	service *Service
}

type PublishRequest struct {
	VideoID string
	Package *seo.Package
	// Thumbnail is an optional data URI.
	Thumbnail string
}

type PublishResult struct {
	Metadata         youtube.Metadata
	ThumbnailUpdated bool
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

func (pipeline *Pipeline) Generate(ctx context.Context, req seo.Request) (*seo.Package, error) {
	ctx, cancel := pipeline.withTimeout(ctx)
	defer cancel()
	return pipeline.service.controller.Submit(ctx, req)
}

// Thumbnail renders the thumbnail for the current result. An empty prompt
// uses the one the package suggested.
func (pipeline *Pipeline) Thumbnail(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		result := pipeline.service.controller.Snapshot().Result
		if result == nil {
			return "", present.ErrNoResult
		}
		prompt = result.ThumbnailPrompt
	}

	ctx, cancel := pipeline.withTimeout(ctx)
	defer cancel()
	return pipeline.service.controller.RequestImage(ctx, prompt)
}

// Export saves the current result for req.
func (pipeline *Pipeline) Export(ctx context.Context, req seo.Request) ([]string, error) {
	snap := pipeline.service.controller.Snapshot()
	return Export(ctx, pipeline.service.store, ExportInput{
		Package:   snap.Result,
		Thumbnail: snap.Thumbnail,
		Request:   req,
		Now:       time.Now(),
	})
}

func (pipeline *Pipeline) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	client := pipeline.service.youtube
	if client == nil {
		return nil, ErrYouTubeNotConfigured
	}
	if req.Package == nil {
		return nil, present.ErrNoResult
	}

	slog.Info("Applying metadata", "video_id", req.VideoID)
	meta, err := client.ApplyMetadata(ctx, req.VideoID, req.Package)
	if err != nil {
		return nil, err
	}
	result := &PublishResult{Metadata: meta}

	if req.Thumbnail != "" {
		mimeType, image, err := storage.DecodeDataURI(req.Thumbnail)
		if err != nil {
			return nil, err
		}
		if err := client.SetThumbnail(ctx, req.VideoID, mimeType, image); err != nil {
			return nil, err
		}
		result.ThumbnailUpdated = true
	}

	slog.Info("Video updated", "video_id", req.VideoID, "tags", len(meta.Tags), "thumbnail", result.ThumbnailUpdated)
	return result, nil
}

func (pipeline *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := pipeline.service.cfg.Lifecycle.RequestTimeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

type exportFile struct {
	name string
	data []byte
}

type ExportInput struct {
	Package   *seo.Package
	Thumbnail string
	Request   seo.Request
	Now       time.Time
}

// Export writes the report, the package JSON and, when present, the
// thumbnail image. It returns the saved locations in that order.
func Export(ctx context.Context, store storage.Store, in ExportInput) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("export: no store configured")
	}
	report, err := present.Report(in.Package, present.MetaFor(in.Request, in.Now))
	if err != nil {
		return nil, err
	}

	filename := present.ReportFilename(in.Request.ChannelName, in.Now)
	base := strings.TrimSuffix(filename, ".txt")

	files := []exportFile{{name: filename, data: []byte(report)}}

	data, err := json.MarshalIndent(in.Package, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal package: %w", err)
	}
	files = append(files, exportFile{name: base + ".json", data: data})

	if in.Thumbnail != "" {
		mimeType, image, err := storage.DecodeDataURI(in.Thumbnail)
		if err != nil {
			return nil, err
		}
		files = append(files, exportFile{name: base + storage.ImageExtension(mimeType), data: image})
	}

	saved := make([]string, 0, len(files))
	for _, f := range files {
		loc, err := store.Save(ctx, f.name, f.data)
		if err != nil {
			return saved, err
		}
		saved = append(saved, loc)
	}
	return saved, nil
}
