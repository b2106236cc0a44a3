package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tubeexpert/internal/app"
	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/present"
	"tubeexpert/internal/seo"
)

var formFields = []string{
	seo.FieldTopic,
	seo.FieldLanguage,
	seo.FieldChannelName,
	seo.FieldTargetCountry,
	seo.FieldUploadTime,
	seo.FieldVideoType,
}

type pageData struct {
	Title      string
	Form       seo.Request
	VideoTypes []seo.VideoType
	State      lifecycle.Snapshot
	Refresh    bool
	Notice     string
	Tab        present.Tab
	Tabs       []present.Tab
	Cards      []present.Card
	Thumbnail  template.URL
	CanExport  bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, s.takeNotice())
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, notice string) {
	tab, err := present.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		tab = present.TabMetadata
	}

	s.mu.Lock()
	form := s.form.Request()
	language := s.submitted.Language
	s.mu.Unlock()
	if language == "" {
		language = form.Language
	}

	snap := s.controller.Snapshot()
	data := pageData{
		Title:      "TubeExpert PRO",
		Form:       form,
		VideoTypes: seo.VideoTypes(),
		State:      snap,
		Refresh:    snap.State != lifecycle.StateIdle,
		Notice:     notice,
		Tab:        tab,
		Tabs:       present.Tabs(),
		Cards:      present.Cards(snap.Result, tab, language),
		CanExport:  snap.Result != nil && s.store != nil,
	}
	if strings.HasPrefix(snap.Thumbnail, "data:image/") {
		data.Thumbnail = template.URL(snap.Thumbnail)
	}

	s.render(w, status, "index.html", data)
}

// applyForm copies posted fields into the form state. Absent fields keep
// their value.
func (s *Server) applyForm(values url.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, field := range formFields {
		if _, ok := values[field]; !ok {
			continue
		}
		value := values.Get(field)
		if field == seo.FieldVideoType && value == "" {
			continue
		}
		if err := s.form.Set(field, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := s.applyForm(r.PostForm); err != nil {
		s.renderIndex(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	req := s.form.Request()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	err := s.controller.SubmitAsync(ctx, req, func(*seo.Package, error) { cancel() })
	if err != nil {
		cancel()
		s.renderIndex(w, r, admissionStatus(err), admissionMessage(err))
		return
	}

	s.mu.Lock()
	s.submitted = req
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleShorts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := s.applyForm(r.PostForm); err != nil {
		s.renderIndex(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.form.ToggleShorts()
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	snap := s.controller.Snapshot()
	if snap.Result == nil {
		s.renderIndex(w, r, http.StatusConflict, "Generate a package first.")
		return
	}

	prompt := strings.TrimSpace(r.PostForm.Get("prompt"))
	if prompt == "" {
		prompt = snap.Result.ThumbnailPrompt
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	err := s.controller.RequestImageAsync(ctx, prompt, func(string, error) { cancel() })
	if err != nil {
		cancel()
		s.renderIndex(w, r, admissionStatus(err), admissionMessage(err))
		return
	}

	http.Redirect(w, r, "/?tab="+string(present.TabVisuals), http.StatusSeeOther)
}

func (s *Server) report() (string, string, error) {
	snap := s.controller.Snapshot()

	s.mu.Lock()
	submitted := s.submitted
	s.mu.Unlock()

	now := s.now()
	report, err := present.Report(snap.Result, present.MetaFor(submitted, now))
	if err != nil {
		return "", "", err
	}
	return present.ReportFilename(submitted.ChannelName, now), report, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	filename, report, err := s.report()
	if errors.Is(err, present.ErrNoResult) {
		http.Error(w, "no package generated yet", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to build report", "error", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(report))
}

func (s *Server) handleEssentials(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	language := s.submitted.Language
	s.mu.Unlock()

	text, err := present.Essentials(s.controller.Snapshot().Result, language)
	if errors.Is(err, present.ErrNoResult) {
		http.Error(w, "no package generated yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "export storage not configured", http.StatusNotImplemented)
		return
	}

	saved, err := s.export(r.Context())
	if errors.Is(err, present.ErrNoResult) {
		s.renderIndex(w, r, http.StatusConflict, "Generate a package first.")
		return
	}
	if err != nil {
		slog.Error("Export failed", "error", err)
		s.renderIndex(w, r, http.StatusInternalServerError, "Export failed: "+err.Error())
		return
	}

	slog.Info("Exported package", "locations", saved)
	s.setNotice("Saved " + strings.Join(saved, ", "))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) export(ctx context.Context) ([]string, error) {
	snap := s.controller.Snapshot()

	s.mu.Lock()
	submitted := s.submitted
	s.mu.Unlock()

	return app.Export(ctx, s.store, app.ExportInput{
		Package:   snap.Result,
		Thumbnail: snap.Thumbnail,
		Request:   submitted,
		Now:       s.now(),
	})
}

type stateResponse struct {
	lifecycle.Snapshot
	Form seo.Request `json:"form"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	form := s.form.Request()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateResponse{Snapshot: s.controller.Snapshot(), Form: form}); err != nil {
		slog.Error("Failed to encode state", "error", err)
	}
}

func admissionStatus(err error) int {
	switch {
	case errors.Is(err, seo.ErrMissingFields):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lifecycle.ErrBusy), errors.Is(err, lifecycle.ErrCoolingDown):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func admissionMessage(err error) string {
	var f lifecycle.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	switch {
	case errors.Is(err, lifecycle.ErrBusy):
		return "A request is already running."
	case errors.Is(err, lifecycle.ErrCoolingDown):
		return "System recharging. Wait for the cooldown to finish."
	}
	return err.Error()
}
