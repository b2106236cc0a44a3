package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"tubeexpert/internal/seo"
)

func writeToken(t *testing.T, token *oauth2.Token) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	data, err := json.Marshal(token)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func validToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: "test-access-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
}

func TestNewAuth(t *testing.T) {
	auth := NewAuth("client-id", "client-secret", "/tmp/token.json")

	if auth.config.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want %q", auth.config.ClientID, "client-id")
	}
	if auth.config.RedirectURL != DefaultRedirectURL {
		t.Errorf("RedirectURL = %q", auth.config.RedirectURL)
	}
	if auth.TokenPath() != "/tmp/token.json" {
		t.Errorf("TokenPath() = %q", auth.TokenPath())
	}
	if len(auth.config.Scopes) != 1 || !strings.HasSuffix(auth.config.Scopes[0], "youtube.force-ssl") {
		t.Errorf("Scopes = %v", auth.config.Scopes)
	}
}

func TestAuthURL(t *testing.T) {
	url := NewAuth("client-id", "client-secret", "/tmp/token.json").AuthURL("abc")
	for _, want := range []string{"client_id=client-id", "state=abc", "access_type=offline"} {
		if !strings.Contains(url, want) {
			t.Errorf("AuthURL() = %q, missing %q", url, want)
		}
	}
}

func TestAuthLoadToken(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
		notAuth bool
	}{
		{
			name:  "validToken",
			setup: func(t *testing.T) string { return writeToken(t, validToken()) },
		},
		{
			name:    "missingFile",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") },
			wantErr: true,
			notAuth: true,
		},
		{
			name: "invalidJSON",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "token.json")
				_ = os.WriteFile(path, []byte("not valid json"), 0600)
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuth("id", "secret", tt.setup(t))
			err := auth.LoadToken()

			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.notAuth && !errors.Is(err, ErrNotAuthenticated) {
				t.Errorf("LoadToken() error = %v, want ErrNotAuthenticated", err)
			}
			if !tt.wantErr && auth.token == nil {
				t.Error("LoadToken() did not set token")
			}
		})
	}
}

func TestAuthSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	auth := NewAuth("id", "secret", path)
	auth.token = validToken()

	if err := auth.SaveToken(); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	reloaded := NewAuth("id", "secret", path)
	if err := reloaded.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if reloaded.token.AccessToken != "test-access-token" {
		t.Errorf("AccessToken = %q", reloaded.token.AccessToken)
	}

	bad := NewAuth("id", "secret", "/nonexistent/dir/token.json")
	bad.token = validToken()
	if err := bad.SaveToken(); err == nil {
		t.Error("SaveToken() should fail for invalid path")
	}
}

func TestAuthIsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
		want  bool
	}{
		{name: "noToken", want: false},
		{name: "validToken", token: validToken(), want: true},
		{
			name:  "expiredWithoutRefresh",
			token: &oauth2.Token{AccessToken: "x", Expiry: time.Now().Add(-time.Hour)},
			want:  false,
		},
		{
			name:  "expiredWithRefresh",
			token: &oauth2.Token{AccessToken: "x", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuth("id", "secret", filepath.Join(t.TempDir(), "token.json"))
			auth.token = tt.token
			if got := auth.IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeYouTube struct {
	mu         sync.Mutex
	updated    map[string]any
	thumbnail  []byte
	thumbType  string
	authHeader string
	noVideo    bool
}

func (f *fakeYouTube) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.authHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/youtube/v3/videos"):
			if f.noVideo {
				_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []any{map[string]any{
					"id": r.URL.Query().Get("id"),
					"snippet": map[string]any{
						"title":      "Old title",
						"categoryId": "25",
					},
				}},
			})
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/youtube/v3/videos"):
			if err := json.NewDecoder(r.Body).Decode(&f.updated); err != nil {
				t.Errorf("decode update body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(f.updated)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/youtube/v3/thumbnails/set"):
			f.thumbType = r.Header.Get("Content-Type")
			f.thumbnail, _ = io.ReadAll(r.Body)
			_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, fake *fakeYouTube) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	auth := NewAuth("id", "secret", writeToken(t, validToken()))
	return NewClient(auth, option.WithEndpoint(server.URL+"/"))
}

func testPackage() *seo.Package {
	return &seo.Package{
		TitleEnglish:       "Sindh Floods: What Happens Next",
		DescriptionEnglish: "Full breakdown.",
		TagsEnglish:        []string{"sindh floods", "pakistan"},
		TagsNative:         []string{"sindh boodh", "Pakistan"},
		HashtagsEnglish:    []string{"#SindhFloods", "#Pakistan"},
	}
}

func TestApplyMetadata(t *testing.T) {
	fake := &fakeYouTube{}
	client := newTestClient(t, fake)

	meta, err := client.ApplyMetadata(context.Background(), "vid123", testPackage())
	if err != nil {
		t.Fatalf("ApplyMetadata() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.authHeader != "Bearer test-access-token" {
		t.Errorf("Authorization = %q", fake.authHeader)
	}
	snippet, _ := fake.updated["snippet"].(map[string]any)
	if snippet["title"] != "Sindh Floods: What Happens Next" {
		t.Errorf("title = %v", snippet["title"])
	}
	if snippet["categoryId"] != "25" {
		t.Errorf("categoryId = %v, want existing category kept", snippet["categoryId"])
	}
	if snippet["description"] != "Full breakdown.\n\n#SindhFloods #Pakistan" {
		t.Errorf("description = %v", snippet["description"])
	}
	if fake.updated["id"] != "vid123" {
		t.Errorf("id = %v", fake.updated["id"])
	}
	if got := strings.Join(meta.Tags, "|"); got != "sindh floods|pakistan|sindh boodh" {
		t.Errorf("tags = %q", got)
	}
}

func TestApplyMetadataVideoNotFound(t *testing.T) {
	client := newTestClient(t, &fakeYouTube{noVideo: true})

	_, err := client.ApplyMetadata(context.Background(), "missing", testPackage())
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("ApplyMetadata() error = %v, want ErrVideoNotFound", err)
	}
}

func TestApplyMetadataNoAuth(t *testing.T) {
	auth := NewAuth("id", "secret", filepath.Join(t.TempDir(), "token.json"))
	client := NewClient(auth)

	_, err := client.ApplyMetadata(context.Background(), "vid", testPackage())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("ApplyMetadata() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestSetThumbnail(t *testing.T) {
	fake := &fakeYouTube{}
	client := newTestClient(t, fake)

	png := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := client.SetThumbnail(context.Background(), "vid123", "image/png", png); err != nil {
		t.Fatalf("SetThumbnail() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !strings.Contains(string(fake.thumbnail), string(png)) {
		t.Errorf("uploaded body does not contain image bytes")
	}

	if err := client.SetThumbnail(context.Background(), "vid123", "image/png", nil); err == nil {
		t.Error("SetThumbnail() should reject empty image")
	}
}

func TestFitTags(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		budget int
		want   []string
	}{
		{
			name:   "dedupAndStripHash",
			tags:   []string{"#news", "News", " sindh ", ""},
			budget: 500,
			want:   []string{"news", "sindh"},
		},
		{
			name:   "spacesCostQuotes",
			tags:   []string{"ab", "c d"},
			budget: 7,
			want:   []string{"ab"},
		},
		{
			name:   "exactFit",
			tags:   []string{"ab", "c d"},
			budget: 8,
			want:   []string{"ab", "c d"},
		},
		{
			name:   "skipsTooLongKeepsLater",
			tags:   []string{"abcdef", "xy"},
			budget: 4,
			want:   []string{"xy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitTags(tt.tags, tt.budget)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("FitTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataFromPackageTruncates(t *testing.T) {
	pkg := &seo.Package{
		TitleEnglish:       strings.Repeat("ب", 150),
		DescriptionEnglish: strings.Repeat("é", 3000),
	}
	meta := MetadataFromPackage(pkg)

	if n := len([]rune(meta.Title)); n != 100 {
		t.Errorf("title runes = %d, want 100", n)
	}
	if len(meta.Description) > 5000 {
		t.Errorf("description bytes = %d, want <= 5000", len(meta.Description))
	}
	if !strings.HasPrefix(pkg.DescriptionEnglish, meta.Description) {
		t.Error("description was not cut on a rune boundary")
	}
}
