package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// editRequest runs the request form over state. Shorts mode locks the video
// type, so the select is only shown when it is off.
func editRequest(state *seo.FormState) error {
	req := state.Request()
	topic := req.Topic
	channel := req.ChannelName
	language := req.Language
	country := req.TargetCountry
	uploadTime := req.UploadTime
	shorts := req.ShortsMode
	videoType := req.VideoType

	options := make([]huh.Option[seo.VideoType], 0, len(seo.VideoTypes()))
	for _, vt := range seo.VideoTypes() {
		options = append(options, huh.NewOption(string(vt), vt))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Topic").
				Placeholder("What is the video about?").
				Value(&topic).
				Validate(required("Topic")),
			huh.NewInput().
				Title("Channel name").
				Value(&channel).
				Validate(required("Channel name")),
			huh.NewInput().
				Title("Language").
				Description("Native language for the second title, description and tags").
				Value(&language).
				Validate(required("Language")),
			huh.NewInput().
				Title("Target country").
				Value(&country),
			huh.NewInput().
				Title("Upload time").
				Value(&uploadTime),
			huh.NewConfirm().
				Title("Shorts mode").
				Value(&shorts),
		),
		huh.NewGroup(
			huh.NewSelect[seo.VideoType]().
				Title("Video type").
				Options(options...).
				Value(&videoType),
		).WithHideFunc(func() bool { return shorts }),
	)
	if err := form.Run(); err != nil {
		return err
	}

	fields := map[string]string{
		seo.FieldTopic:         strings.TrimSpace(topic),
		seo.FieldChannelName:   strings.TrimSpace(channel),
		seo.FieldLanguage:      strings.TrimSpace(language),
		seo.FieldTargetCountry: strings.TrimSpace(country),
		seo.FieldUploadTime:    strings.TrimSpace(uploadTime),
	}
	for field, value := range fields {
		if err := state.Set(field, value); err != nil {
			return err
		}
	}
	if !shorts && videoType != "" && videoType != seo.VideoTypeShorts {
		state.SetVideoType(videoType)
	}
	state.SetShortsMode(shorts)
	return nil
}

// copyCard writes the named card, or the essentials block, to the clipboard.
func copyCard(clip present.Clipboard, pkg *seo.Package, language, title string) error {
	var text string
	if strings.EqualFold(strings.TrimSpace(title), "essentials") {
		essentials, err := present.Essentials(pkg, language)
		if err != nil {
			return err
		}
		text = essentials
	} else {
		if pkg == nil {
			return present.ErrNoResult
		}
		card, ok := present.FindCard(pkg, language, title)
		if !ok {
			return fmt.Errorf("no card titled %q", title)
		}
		text = card.CopyText()
	}

	if err := clip.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// userMessage picks the text shown to the user for err.
func userMessage(err error) string {
	var f lifecycle.Failure
	switch {
	case errors.As(err, &f):
		return f.Message
	case errors.Is(err, lifecycle.ErrBusy):
		return "A request is already running."
	case errors.Is(err, lifecycle.ErrCoolingDown):
		return "System recharging. " + err.Error()
	case errors.Is(err, present.ErrNoResult):
		return "Generate a package first."
	}
	return err.Error()
}

func printFailure(err error) {
	fmt.Println(errorStyle.Render("✗ " + userMessage(err)))
}
