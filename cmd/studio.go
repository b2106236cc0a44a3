package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"tubeexpert/internal/app"
	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
)

const (
	actionGenerate   = "generate"
	actionEdit       = "edit"
	actionShorts     = "shorts"
	actionTab        = "tab"
	actionCopy       = "copy"
	actionEssentials = "essentials"
	actionThumbnail  = "thumbnail"
	actionExport     = "export"
	actionQuit       = "quit"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Interactive SEO studio",
	Long:  `Edit the request, generate packages, browse tabs, copy cards and export reports in one session.`,
	RunE:  runStudio,
}

func init() {
	rootCmd.AddCommand(studioCmd)
}

type studio struct {
	pipeline   *app.Pipeline
	controller *lifecycle.Controller
	state      *seo.FormState
	submitted  seo.Request
	tab        present.Tab
	clipboard  present.Clipboard
}

func runStudio(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	s := &studio{
		pipeline:   app.NewPipeline(service),
		controller: service.Controller(),
		state:      seo.NewFormState(service.Defaults()),
		tab:        present.TabMetadata,
		clipboard:  present.SystemClipboard{},
	}

	fmt.Println(titleStyle.Render("TubeExpert PRO Studio"))
	if !present.ClipboardAvailable() {
		fmt.Println(warnStyle.Render("No clipboard utility found, copy actions will fail"))
	}

	for {
		action, err := s.chooseAction()
		if errors.Is(err, huh.ErrUserAborted) || action == actionQuit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.run(cmd, action); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			printFailure(err)
		}
	}
}

func (s *studio) chooseAction() (string, error) {
	snap := s.controller.Snapshot()
	fmt.Println(s.status(snap))

	generateLabel := "Generate viral package"
	if snap.State == lifecycle.StateCooldown {
		generateLabel = fmt.Sprintf("Recharging... %ds", snap.Cooldown)
	}
	shortsLabel := "Shorts mode: OFF"
	if s.state.Request().ShortsMode {
		shortsLabel = "Shorts mode: ON"
	}

	options := []huh.Option[string]{
		huh.NewOption(generateLabel, actionGenerate),
		huh.NewOption("Edit request", actionEdit),
		huh.NewOption(shortsLabel, actionShorts),
	}
	if snap.Result != nil {
		options = append(options,
			huh.NewOption("Switch tab", actionTab),
			huh.NewOption("Copy card", actionCopy),
			huh.NewOption("Copy essentials", actionEssentials),
			huh.NewOption("Generate thumbnail", actionThumbnail),
			huh.NewOption("Export report", actionExport),
		)
	}
	options = append(options, huh.NewOption("Quit", actionQuit))

	var action string
	err := huh.NewSelect[string]().
		Title("What next?").
		Options(options...).
		Value(&action).
		Run()
	return action, err
}

func (s *studio) status(snap lifecycle.Snapshot) string {
	req := s.state.Request()
	line := mutedStyle.Render(fmt.Sprintf("%s | %s | %s | %s",
		orDash(req.Topic), req.ChannelName, req.Language, req.EffectiveVideoType()))
	if snap.Failure != nil {
		line += "\n" + errorStyle.Render(snap.Failure.Message)
	}
	if snap.State == lifecycle.StateCooldown {
		line += "\n" + warnStyle.Render(fmt.Sprintf("Cooldown: %ds", snap.Cooldown))
	}
	return line
}

func (s *studio) run(cmd *cobra.Command, action string) error {
	ctx := cmd.Context()
	snap := s.controller.Snapshot()

	switch action {
	case actionGenerate:
		if err := s.state.Request().Validate(); errors.Is(err, seo.ErrMissingFields) {
			if err := editRequest(s.state); err != nil {
				return err
			}
		}
		req := s.state.Request()
		err := runWithSpinner("Generating viral package", func() error {
			_, genErr := s.pipeline.Generate(ctx, req)
			return genErr
		})
		if err != nil {
			return err
		}
		s.submitted = req
		s.tab = present.TabMetadata
		s.render()

	case actionEdit:
		return editRequest(s.state)

	case actionShorts:
		s.state.ToggleShorts()

	case actionTab:
		options := make([]huh.Option[present.Tab], 0, len(present.Tabs()))
		for _, t := range present.Tabs() {
			options = append(options, huh.NewOption(string(t), t))
		}
		if err := huh.NewSelect[present.Tab]().Title("Tab").Options(options...).Value(&s.tab).Run(); err != nil {
			return err
		}
		s.render()

	case actionCopy:
		cards := present.Cards(snap.Result, s.tab, s.submitted.Language)
		if len(cards) == 0 {
			return present.ErrNoResult
		}
		options := make([]huh.Option[string], 0, len(cards))
		for _, c := range cards {
			options = append(options, huh.NewOption(c.Title, c.Title))
		}
		var title string
		if err := huh.NewSelect[string]().Title("Copy which card?").Options(options...).Value(&title).Run(); err != nil {
			return err
		}
		if err := copyCard(s.clipboard, snap.Result, s.submitted.Language, title); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Copied " + title))

	case actionEssentials:
		if err := copyCard(s.clipboard, snap.Result, s.submitted.Language, "essentials"); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Copied essentials"))

	case actionThumbnail:
		prompt := ""
		if snap.Result != nil {
			prompt = snap.Result.ThumbnailPrompt
		}
		if err := huh.NewText().Title("Thumbnail prompt").Value(&prompt).Run(); err != nil {
			return err
		}
		err := runWithSpinner("Generating thumbnail", func() error {
			_, imgErr := s.pipeline.Thumbnail(ctx, prompt)
			return imgErr
		})
		if err != nil {
			return err
		}
		fmt.Println(infoStyle.Render("Thumbnail ready, export to save it"))

	case actionExport:
		saved, err := s.pipeline.Export(ctx, s.submitted)
		if err != nil {
			return err
		}
		for _, loc := range saved {
			fmt.Println(successStyle.Render("✓ Saved " + loc))
		}
	}
	return nil
}

func (s *studio) render() {
	fmt.Println(present.Render(s.controller.Snapshot().Result, s.tab, s.submitted.Language))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
