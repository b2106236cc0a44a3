package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/seo"
	"tubeexpert/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultRequestTimeout = 2 * time.Minute

type Options struct {
	Controller *lifecycle.Controller
	Defaults   seo.Request
	// Store receives exports. Export is disabled when nil.
	Store          storage.Store
	RequestTimeout time.Duration
	Now            func() time.Time
}

// Server is the single-session browser front-end.
type Server struct {
	controller     *lifecycle.Controller
	store          storage.Store
	requestTimeout time.Duration
	now            func() time.Time
	templates      map[string]*template.Template

	mu        sync.Mutex
	form      *seo.FormState
	submitted seo.Request
	notice    string
}

func NewServer(opts Options) (*Server, error) {
	if opts.Controller == nil {
		return nil, fmt.Errorf("create web server: controller is required")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		controller:     opts.Controller,
		store:          opts.Store,
		requestTimeout: opts.RequestTimeout,
		now:            opts.Now,
		templates:      templates,
		form:           seo.NewFormState(opts.Defaults),
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}

	pages, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	cache := make(map[string]*template.Template)
	for _, page := range pages {
		name := page.Name()
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		cache[name] = tmpl
	}
	return cache, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Post("/shorts", s.handleShorts)
	r.Post("/thumbnail", s.handleThumbnail)
	r.Get("/report", s.handleReport)
	r.Get("/essentials", s.handleEssentials)
	r.Post("/export", s.handleExport)
	r.Get("/api/state", s.handleState)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		slog.Error("Template not found", "page", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		slog.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func (s *Server) setNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

// takeNotice returns the pending notice once.
func (s *Server) takeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.notice
	s.notice = ""
	return msg
}
