package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tubeexpert/internal/app"
	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
)

var (
	genTopic      string
	genChannel    string
	genLanguage   string
	genCountry    string
	genVideoType  string
	genUploadTime string
	genShorts     bool
	genTab        string
	genThumbnail  bool
	genReport     bool
	genJSON       bool
	genCopy       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one SEO package",
	Long: `Generate one SEO package from flags. Missing required fields are asked for
interactively.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTopic, "topic", "t", "", "Video topic")
	generateCmd.Flags().StringVarP(&genChannel, "channel", "c", "", "Channel name")
	generateCmd.Flags().StringVarP(&genLanguage, "language", "l", "", "Native language")
	generateCmd.Flags().StringVar(&genCountry, "country", "", "Target country")
	generateCmd.Flags().StringVar(&genVideoType, "type", "", "Video type")
	generateCmd.Flags().StringVar(&genUploadTime, "upload-time", "", "Planned upload time")
	generateCmd.Flags().BoolVar(&genShorts, "shorts", false, "Shorts mode")
	generateCmd.Flags().StringVar(&genTab, "tab", "all", "Tab to print: metadata, content, strategy, visuals or all")
	generateCmd.Flags().BoolVar(&genThumbnail, "thumbnail", false, "Also generate the thumbnail image")
	generateCmd.Flags().BoolVar(&genReport, "report", false, "Export the report, package JSON and thumbnail")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the raw package as JSON")
	generateCmd.Flags().StringVar(&genCopy, "copy", "", `Copy a card by title, or "essentials"`)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tabs, err := selectedTabs(genTab)
	if err != nil {
		return err
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

	state := seo.NewFormState(service.Defaults())
	if err := applyGenerateFlags(cmd, state); err != nil {
		return err
	}
	if err := state.Request().Validate(); errors.Is(err, seo.ErrMissingFields) {
		if err := editRequest(state); err != nil {
			return err
		}
	}
	req := state.Request()

	pipeline := app.NewPipeline(service)

	var pkg *seo.Package
	err = runWithSpinner("Generating viral package", func() error {
		var genErr error
		pkg, genErr = pipeline.Generate(ctx, req)
		return genErr
	})
	if err != nil {
		printFailure(err)
		return err
	}

	if genJSON {
		data, err := json.MarshalIndent(pkg, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal package: %w", err)
		}
		fmt.Println(string(data))
	} else {
		for _, tab := range tabs {
			fmt.Println(present.Render(pkg, tab, req.Language))
		}
	}

	if genThumbnail {
		err := runWithSpinner("Generating thumbnail", func() error {
			_, imgErr := pipeline.Thumbnail(ctx, "")
			return imgErr
		})
		if err != nil {
			printFailure(err)
		}
	}

	if genReport {
		saved, err := pipeline.Export(ctx, req)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		for _, loc := range saved {
			fmt.Println(successStyle.Render("✓ Saved " + loc))
		}
	}

	if genCopy != "" {
		if err := copyCard(present.SystemClipboard{}, pkg, req.Language, genCopy); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Copied " + genCopy))
	}

	slog.Debug("Generate finished", "title", pkg.TitleEnglish)
	return nil
}

func applyGenerateFlags(cmd *cobra.Command, state *seo.FormState) error {
	flags := []struct {
		name  string
		field string
		value string
	}{
		{"topic", seo.FieldTopic, genTopic},
		{"channel", seo.FieldChannelName, genChannel},
		{"language", seo.FieldLanguage, genLanguage},
		{"country", seo.FieldTargetCountry, genCountry},
		{"type", seo.FieldVideoType, genVideoType},
		{"upload-time", seo.FieldUploadTime, genUploadTime},
	}
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if err := state.Set(f.field, f.value); err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
	}
	if cmd.Flags().Changed("shorts") {
		state.SetShortsMode(genShorts)
	}
	return nil
}

func selectedTabs(name string) ([]present.Tab, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return present.Tabs(), nil
	}
	tab, err := present.ParseTab(name)
	if err != nil {
		return nil, err
	}
	return []present.Tab{tab}, nil
}
