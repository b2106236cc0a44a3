package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no model credential is configured.
var ErrMissingAPIKey = errors.New("API_KEY is not configured")

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

const (
	defaultConfigPath      = "config.yaml"
	defaultProvider        = ProviderGemini
	defaultGeminiModel     = "gemini-3-flash-preview"
	defaultImageModel      = "gemini-2.5-flash-image"
	defaultAspectRatio     = "16:9"
	defaultGroqModel       = "llama-3.3-70b-versatile"
	defaultCooldownSeconds = 60
	defaultRequestTimeout  = 2 * time.Minute
	defaultOutputDir       = "./output"
	defaultGCSPrefix       = "reports"
	defaultPort            = "8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenPath       = "./youtube_token.json"
	defaultPromptsPath     = "prompts.yaml"
)

type Config struct {
	GeminiAPIKey        string
	GroqAPIKey          string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	GCSBucket           string

	Provider  string          `yaml:"provider"`
	Prompts   string          `yaml:"prompts"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Groq      GroqConfig      `yaml:"groq"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Output    OutputConfig    `yaml:"output"`
	GCS       GCSConfig       `yaml:"gcs"`
	Server    ServerConfig    `yaml:"server"`
}

type GeminiConfig struct {
	Model       string `yaml:"model"`
	ImageModel  string `yaml:"image_model"`
	AspectRatio string `yaml:"aspect_ratio"`
	Grounding   bool   `yaml:"grounding"`
	BaseURL     string `yaml:"base_url"`
}

type GroqConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// DefaultsConfig pre-fills the request form.
type DefaultsConfig struct {
	Language      string `yaml:"language"`
	ChannelName   string `yaml:"channel_name"`
	TargetCountry string `yaml:"target_country"`
	VideoType     string `yaml:"video_type"`
	UploadTime    string `yaml:"upload_time"`
	ShortsMode    bool   `yaml:"shorts_mode"`
}

type LifecycleConfig struct {
	CooldownSeconds int           `yaml:"cooldown_seconds"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Load reads .env, the environment and config.yaml. A missing config.yaml is
// not an error; every field has a default.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, defaultConfigPath)
}

func LoadFrom(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:        firstEnv("GEMINI_API_KEY", "API_KEY"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
	}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	applyDefaults(cfg)

	if cfg.GeminiAPIKey == "" {
		if name := os.Getenv("GEMINI_API_KEY_SECRET"); name != "" {
			key, err := accessSecret(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("resolve gemini api key: %w", err)
			}
			cfg.GeminiAPIKey = key
		}
	}

	return cfg, nil
}

// RequireAPIKey reports ErrMissingAPIKey when the selected provider has no
// credential.
func (c *Config) RequireAPIKey() error {
	switch c.Provider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY: %w", ErrMissingAPIKey)
		}
	default:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY: %w", ErrMissingAPIKey)
		}
	}
	return nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func accessSecret(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret: %w", err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func applyDefaults(cfg *Config) {
	applyProviderDefaults(cfg)
	applyGeminiDefaults(cfg)
	applyGroqDefaults(cfg)
	applyLifecycleDefaults(cfg)
	applyOutputDefaults(cfg)
	applyServerDefaults(cfg)
}

func applyProviderDefaults(cfg *Config) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}
	if cfg.Prompts == "" {
		cfg.Prompts = defaultPromptsPath
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaultGeminiModel
	}
	if cfg.Gemini.ImageModel == "" {
		cfg.Gemini.ImageModel = defaultImageModel
	}
	if cfg.Gemini.AspectRatio == "" {
		cfg.Gemini.AspectRatio = defaultAspectRatio
	}
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func applyLifecycleDefaults(cfg *Config) {
	if cfg.Lifecycle.CooldownSeconds <= 0 {
		cfg.Lifecycle.CooldownSeconds = defaultCooldownSeconds
	}
	if cfg.Lifecycle.RequestTimeout <= 0 {
		cfg.Lifecycle.RequestTimeout = defaultRequestTimeout
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
