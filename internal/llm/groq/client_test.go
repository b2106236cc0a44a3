package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tubeexpert/internal/llm"
	"tubeexpert/internal/seo"
	"tubeexpert/pkg/config"
	"tubeexpert/pkg/prompts"
)

type groqResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []groqChoice `json:"choices"`
	Usage   groqUsage    `json:"usage"`
}

type groqChoice struct {
	Index        int         `json:"index"`
	Message      groqMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

const packageJSON = `{
	"titleEnglish": "Sindh Floods: What Happens Next",
	"titleNative": "Sindh jo toofan",
	"descriptionEnglish": "A full breakdown of the flood response.",
	"tagsEnglish": ["sindh floods", "pakistan news"],
	"hashtagsEnglish": ["#SindhFloods", "#Pakistan"],
	"thumbnailAIPrompt": "flooded village at dawn",
	"algorithmBoostStrategy": {"viralHack110": "Reply to the first 50 comments"}
}`

func testPrompts() *prompts.Prompts {
	return &prompts.Prompts{
		System: prompts.SystemPrompts{Package: "You are an SEO strategist."},
		Package: prompts.PackagePrompts{
			Standard: "Package for {{.Topic}} on {{.ChannelName}} ({{.VideoType}})",
			Grounded: "Search first.",
			Schema:   "Return JSON.",
		},
	}
}

func testRequest() seo.Request {
	return seo.Request{
		Topic:       "Sindh floods",
		Language:    "Roman Sindhi",
		ChannelName: "Sindh TV News",
		VideoType:   seo.VideoTypeNews,
	}
}

// makeGroqResponse creates a valid Groq API response with the given content
func makeGroqResponse(content string) groqResponse {
	return groqResponse{
		ID:      "test-id",
		Object:  "chat.completion",
		Created: 1234567890,
		Model:   "llama-3.3-70b-versatile",
		Choices: []groqChoice{
			{
				Index:        0,
				Message:      groqMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: groqUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient("test-api-key", "llama-3.3-70b-versatile", serverURL+"/", testPrompts())
	if err != nil {
		t.Fatalf("failed to create groq client: %v", err)
	}
	return client
}

func TestNewClientMissingKey(t *testing.T) {
	_, err := NewClient("", "model", "", testPrompts())
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Errorf("NewClient() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestGeneratePackage(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   string
		statusCode     int
		wantErr        bool
		wantMalformed  bool
		wantErrContain string
		wantTitle      string
	}{
		{
			name:         "successfulGeneration",
			responseBody: mustJSON(makeGroqResponse(packageJSON)),
			statusCode:   http.StatusOK,
			wantTitle:    "Sindh Floods: What Happens Next",
		},
		{
			name:          "emptyResponse",
			responseBody:  mustJSON(makeGroqResponse("")),
			statusCode:    http.StatusOK,
			wantErr:       true,
			wantMalformed: true,
		},
		{
			name: "noChoices",
			responseBody: func() string {
				resp := makeGroqResponse("")
				resp.Choices = nil
				return mustJSON(resp)
			}(),
			statusCode:    http.StatusOK,
			wantErr:       true,
			wantMalformed: true,
		},
		{
			name:          "invalidJSON",
			responseBody:  mustJSON(makeGroqResponse("not valid json")),
			statusCode:    http.StatusOK,
			wantErr:       true,
			wantMalformed: true,
		},
		{
			name: "httpErrorUnauthorized",
			// 401 is not retried by groq-go
			responseBody:   `{"error": {"message": "invalid api key", "type": "authentication_error"}}`,
			statusCode:     http.StatusUnauthorized,
			wantErr:        true,
			wantErrContain: "generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			got, err := client.GeneratePackage(context.Background(), testRequest())

			if tt.wantErr {
				if err == nil {
					t.Fatal("GeneratePackage() expected error, got nil")
				}
				if tt.wantMalformed && !errors.Is(err, llm.ErrMalformedResponse) {
					t.Errorf("GeneratePackage() error = %v, want ErrMalformedResponse", err)
				}
				if tt.wantErrContain != "" && !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("GeneratePackage() error = %v, want error containing %q", err, tt.wantErrContain)
				}
				return
			}

			if err != nil {
				t.Fatalf("GeneratePackage() unexpected error: %v", err)
			}
			if got.TitleEnglish != tt.wantTitle {
				t.Errorf("TitleEnglish = %q, want %q", got.TitleEnglish, tt.wantTitle)
			}
			if got.Strategy.ViralHack != "Reply to the first 50 comments" {
				t.Errorf("Strategy.ViralHack = %q", got.Strategy.ViralHack)
			}
		})
	}
}

func TestRequestBody(t *testing.T) {
	var receivedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-api-key" {
			t.Errorf("expected Authorization Bearer test-api-key, got %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(mustJSON(makeGroqResponse(packageJSON))))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.GeneratePackage(context.Background(), testRequest()); err != nil {
		t.Fatalf("GeneratePackage() error: %v", err)
	}

	if receivedBody["model"] != "llama-3.3-70b-versatile" {
		t.Errorf("expected model llama-3.3-70b-versatile, got %v", receivedBody["model"])
	}

	messages, ok := receivedBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", receivedBody["messages"])
	}
	user, _ := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	if content != "Package for Sindh floods on Sindh TV News (News)\n\nReturn JSON." {
		t.Errorf("user prompt = %q", content)
	}
}

func TestRateLimitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GeneratePackage(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error for rate limit, got nil")
	}
	if !strings.Contains(err.Error(), "generate") {
		t.Errorf("expected error containing 'generate', got: %v", err)
	}
}

// mustJSON marshals v to JSON and panics on error (for test setup only)
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
