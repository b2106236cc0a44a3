package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return f.err
}

func TestSelectedTabs(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "all", want: 4},
		{in: "ALL", want: 4},
		{in: "strategy", want: 1},
		{in: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := selectedTabs(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("selectedTabs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("selectedTabs(%q) = %v, want %d tabs", tt.in, got, tt.want)
			}
		})
	}
}

func TestCopyCard(t *testing.T) {
	pkg := &seo.Package{
		TitleEnglish:       "Sindh Floods Explained",
		DescriptionEnglish: "Full breakdown.",
		TagsEnglish:        []string{"sindh floods", "pakistan news"},
	}

	tests := []struct {
		name    string
		pkg     *seo.Package
		title   string
		want    string
		wantErr error
	}{
		{name: "tagCard", pkg: pkg, title: "primary tags (en)", want: "sindh floods, pakistan news"},
		{name: "textCard", pkg: pkg, title: "English Title", want: "Sindh Floods Explained"},
		{name: "noResult", title: "English Title", wantErr: present.ErrNoResult},
		{name: "essentialsNoResult", title: "essentials", wantErr: present.ErrNoResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := &fakeClipboard{}
			err := copyCard(clip, tt.pkg, "Roman Sindhi", tt.title)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("copyCard() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("copyCard() error: %v", err)
			}
			if clip.text != tt.want {
				t.Errorf("clipboard = %q, want %q", clip.text, tt.want)
			}
		})
	}

	if err := copyCard(&fakeClipboard{}, pkg, "Roman Sindhi", "No Such Card"); err == nil {
		t.Error("copyCard() expected error for unknown title")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "failure",
			err:  lifecycle.Failure{Category: lifecycle.CategoryRateLimit, Message: lifecycle.MessageRateLimit},
			want: lifecycle.MessageRateLimit,
		},
		{name: "busy", err: lifecycle.ErrBusy, want: "A request is already running."},
		{name: "noResult", err: present.ErrNoResult, want: "Generate a package first."},
		{name: "other", err: fmt.Errorf("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyGenerateFlags(t *testing.T) {
	t.Cleanup(func() {
		genTopic, genVideoType, genShorts = "", "", false
	})

	if err := generateCmd.ParseFlags([]string{"--topic", "Cricket final", "--type", "sports", "--shorts"}); err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}

	state := seo.NewFormState(seo.Request{})
	if err := applyGenerateFlags(generateCmd, state); err != nil {
		t.Fatalf("applyGenerateFlags() error: %v", err)
	}

	req := state.Request()
	if req.Topic != "Cricket final" {
		t.Errorf("Topic = %q", req.Topic)
	}
	if !req.ShortsMode || req.EffectiveVideoType() != seo.VideoTypeShorts {
		t.Errorf("request = %+v, want shorts mode", req)
	}

	state.ToggleShorts()
	if got := state.Request().VideoType; got != seo.DefaultVideoType {
		t.Errorf("VideoType after toggle = %q, want %q", got, seo.DefaultVideoType)
	}
}

func TestSaveChannelDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	req := seo.Request{
		ChannelName:   " Geo News ",
		Language:      "Urdu",
		TargetCountry: "Pakistan",
		VideoType:     seo.VideoTypeSports,
	}
	if err := saveChannelDefaults(path, req); err != nil {
		t.Fatalf("saveChannelDefaults() error: %v", err)
	}

	cfg, err := config.LoadFrom(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	want := config.DefaultsConfig{
		ChannelName:   "Geo News",
		Language:      "Urdu",
		TargetCountry: "Pakistan",
		VideoType:     "Sports",
	}
	got := cfg.Defaults
	if got.ChannelName != want.ChannelName || got.Language != want.Language ||
		got.TargetCountry != want.TargetCountry || got.VideoType != want.VideoType {
		t.Errorf("Defaults = %+v, want %+v", got, want)
	}
}

func TestSaveEnvMergesExistingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY=old\nYOUTUBE_TOKEN_PATH=/tmp/token.json\n"), 0600); err != nil {
		t.Fatal(err)
	}

	err := saveEnv(path, map[string]string{
		"GEMINI_API_KEY": "",
		"GCS_BUCKET":     "sindh-reports",
	})
	if err != nil {
		t.Fatalf("saveEnv() error: %v", err)
	}

	got, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	want := map[string]string{
		"GEMINI_API_KEY":     "old",
		"YOUTUBE_TOKEN_PATH": "/tmp/token.json",
		"GCS_BUCKET":         "sindh-reports",
	}
	if len(got) != len(want) {
		t.Errorf("env = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
