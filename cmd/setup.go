package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tubeexpert/internal/seo"
	"tubeexpert/internal/youtube"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

const (
	setupOutputDir  = "output"
	setupEnvPath    = ".env"
	setupConfigPath = "config.yaml"
	setupTokenPath  = "./youtube_token.json"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for TubeExpert",
	Long: `Store the Gemini key, pick the channel defaults the request form starts
with, and optionally connect a YouTube channel and a Cloud Storage bucket.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("TubeExpert Setup"))

	if err := os.MkdirAll(setupOutputDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", setupOutputDir, err)
	}

	env := make(map[string]string)
	steps := []struct {
		name string
		fn   func(map[string]string) error
	}{
		{"API keys", askAPIKeys},
		{"Channel defaults", askChannelDefaults},
		{"YouTube publishing", askPublishing},
		{"Report export", askBucket},
	}
	for _, step := range steps {
		if err := step.fn(env); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if err := saveEnv(setupEnvPath, env); err != nil {
		return err
	}
	printNextSteps()
	return nil
}

func askAPIKeys(env map[string]string) error {
	if existing, err := godotenv.Read(setupEnvPath); err == nil && existing["GEMINI_API_KEY"] != "" {
		replace := false
		if err := huh.NewConfirm().
			Title("Replace the API keys in .env?").
			Value(&replace).
			Run(); err != nil || !replace {
			return err
		}
	}

	var geminiKey, groqKey string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Writes the package and renders thumbnails. https://aistudio.google.com/app/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey).
				Validate(required("Gemini API key")),
			huh.NewInput().
				Title("Groq API key (optional)").
				Description("Only used with provider: groq in config.yaml").
				EchoMode(huh.EchoModePassword).
				Value(&groqKey),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	env["GEMINI_API_KEY"] = strings.TrimSpace(geminiKey)
	env["GROQ_API_KEY"] = strings.TrimSpace(groqKey)
	return nil
}

func askChannelDefaults(map[string]string) error {
	if _, err := os.Stat(setupConfigPath); err == nil {
		fmt.Println(infoStyle.Render("Kept existing " + setupConfigPath))
		return nil
	}

	defaults := seo.NewFormState(seo.Request{}).Request()
	videoType := string(defaults.VideoType)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Channel name").
				Value(&defaults.ChannelName).
				Validate(required("Channel name")),
			huh.NewInput().
				Title("Output language").
				Description("Native-language fields are written in this language").
				Value(&defaults.Language).
				Validate(required("Output language")),
			huh.NewInput().
				Title("Target country").
				Value(&defaults.TargetCountry),
			huh.NewSelect[string]().
				Title("Usual video type").
				Options(videoTypeOptions()...).
				Value(&videoType),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	defaults.VideoType = seo.VideoType(videoType)

	return saveChannelDefaults(setupConfigPath, defaults)
}

func videoTypeOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, vt := range seo.VideoTypes() {
		if vt == seo.VideoTypeShorts {
			continue
		}
		opts = append(opts, huh.NewOption(string(vt), string(vt)))
	}
	return opts
}

// saveChannelDefaults writes the defaults block config.Load reads back.
func saveChannelDefaults(path string, req seo.Request) error {
	doc := map[string]any{
		"defaults": map[string]string{
			"channel_name":   strings.TrimSpace(req.ChannelName),
			"language":       strings.TrimSpace(req.Language),
			"target_country": strings.TrimSpace(req.TargetCountry),
			"video_type":     string(req.VideoType),
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(successStyle.Render("✓ Saved channel defaults to " + path))
	return nil
}

func askPublishing(env map[string]string) error {
	publish := false
	if err := huh.NewConfirm().
		Title("Apply packages to your YouTube videos?").
		Description("Needs an OAuth desktop client from the Google Cloud console").
		Value(&publish).
		Run(); err != nil || !publish {
		return err
	}

	if project := activeProject(); project != "" {
		env["GOOGLE_CLOUD_PROJECT"] = project
		if err := runWithSpinner("Enabling YouTube Data API on "+project, func() error {
			return runSetupCmd("gcloud", "services", "enable", "youtube.googleapis.com", "--project", project)
		}); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Enable the YouTube Data API by hand: %v", err)))
		}
	}

	fmt.Println(infoStyle.Render("Create a \"Desktop app\" OAuth client at https://console.cloud.google.com/apis/credentials"))

	var clientID, clientSecret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OAuth client ID").
				Value(&clientID),
			huh.NewInput().
				Title("OAuth client secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	env["YOUTUBE_CLIENT_ID"] = clientID
	env["YOUTUBE_CLIENT_SECRET"] = clientSecret
	if clientID == "" || clientSecret == "" {
		return nil
	}

	signIn := true
	if err := huh.NewConfirm().
		Title("Sign in to the channel now?").
		Value(&signIn).
		Run(); err != nil || !signIn {
		return err
	}
	auth := youtube.NewAuth(clientID, clientSecret, setupTokenPath)
	if err := runYouTubeAuth(rootCmd.Context(), auth); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Sign-in failed: %v", err)))
		fmt.Println(infoStyle.Render("Retry with: tubeexpert auth youtube"))
	}
	return nil
}

// activeProject returns the gcloud project, or "" without gcloud.
func activeProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func askBucket(env map[string]string) error {
	var bucket string
	if err := huh.NewInput().
		Title("Cloud Storage bucket for exports (optional)").
		Description("Leave empty to keep reports in ./" + setupOutputDir + ". Set gcs.enabled: true to use it").
		Value(&bucket).
		Run(); err != nil {
		return err
	}
	env["GCS_BUCKET"] = strings.TrimSpace(bucket)
	return nil
}

// saveEnv merges the non-empty answers into the .env file at path. Keys
// the wizard did not ask about are kept.
func saveEnv(path string, env map[string]string) error {
	merged, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		merged = make(map[string]string)
	}
	for key, val := range env {
		if val != "" {
			merged[key] = val
		}
	}
	if err := godotenv.Write(merged, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(successStyle.Render("✓ Saved keys to " + path))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Check your setup: tubeexpert auth status")
	fmt.Println("  2. Run: tubeexpert generate -t \"your topic\"")
	fmt.Println("  3. Or open the studio: tubeexpert studio")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
