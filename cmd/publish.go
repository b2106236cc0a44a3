package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tubeexpert/internal/app"
	"tubeexpert/internal/gemini"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
)

var (
	publishVideoID   string
	publishPackage   string
	publishThumbnail string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Apply an exported package to a YouTube video",
	Long: `Apply the title, description and tags of an exported package JSON to an
existing YouTube video, optionally replacing its thumbnail.`,
	Example: `  tubeexpert publish --video dQw4w9WgXcQ --package output/SEO_Report_Sindh_TV_News_2025-12-03.json
  tubeexpert publish --video dQw4w9WgXcQ --package report.json --thumbnail report.png`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishVideoID, "video", "", "YouTube video ID")
	publishCmd.Flags().StringVar(&publishPackage, "package", "", "Exported package JSON file")
	publishCmd.Flags().StringVar(&publishThumbnail, "thumbnail", "", "Thumbnail image file")
	_ = publishCmd.MarkFlagRequired("video")
	_ = publishCmd.MarkFlagRequired("package")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pkg, err := readPackage(publishPackage)
	if err != nil {
		return err
	}

	var thumbnail string
	if publishThumbnail != "" {
		thumbnail, err = readImageDataURI(publishThumbnail)
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	var result *app.PublishResult
	err = runWithSpinner("Updating video "+publishVideoID, func() error {
		var pubErr error
		result, pubErr = app.NewPipeline(service).Publish(ctx, app.PublishRequest{
			VideoID:   publishVideoID,
			Package:   pkg,
			Thumbnail: thumbnail,
		})
		return pubErr
	})
	if err != nil {
		return err
	}

	fmt.Println(infoStyle.Render("Title: " + result.Metadata.Title))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Tags: %d", len(result.Metadata.Tags))))
	if result.ThumbnailUpdated {
		fmt.Println(successStyle.Render("✓ Thumbnail replaced"))
	}
	return nil
}

func readPackage(path string) (*seo.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}

	var pkg seo.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse package: %w", err)
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func readImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read thumbnail: %w", err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("thumbnail %s is %s, not an image", path, mimeType)
	}
	return gemini.DataURI(mimeType, data), nil
}
