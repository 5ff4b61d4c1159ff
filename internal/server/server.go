// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bryan-buckman/rewind365/internal/digest"
	"github.com/bryan-buckman/rewind365/internal/hostctx"
	"github.com/bryan-buckman/rewind365/internal/page"
	"github.com/bryan-buckman/rewind365/internal/selection"
	"github.com/bryan-buckman/rewind365/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Source is the backend API as seen by the pages.
type Source interface {
	page.ConfigSource
	page.DigestSource
}

// Options configures a Server.
type Options struct {
	Source   Source
	Sessions session.Store
	Location *time.Location
	Now      func() time.Time
	Version  string
}

// Server is the main HTTP server.
type Server struct {
	source    Source
	sessions  session.Store
	janitor   *session.Janitor
	loc       *time.Location
	now       func() time.Time
	version   string
	router    chi.Router
	templates *template.Template
	http      *http.Server

	mu      sync.Mutex
	stopped bool
}

// New creates a new server.
func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: no API source")
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemory()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"ago":    humanize.Time,
		"picker": newPickerVM,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		source:    opts.Source,
		sessions:  opts.Sessions,
		janitor:   session.NewJanitor(opts.Sessions, session.DefaultTTL, session.DefaultPurgeInterval),
		loc:       opts.Location,
		now:       opts.Now,
		version:   opts.Version,
		templates: tmpl,
	}
	s.setupRoutes()
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
	r.Get("/healthz", s.handleHealth)

	// Pages.
	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get(page.PathRoot, s.handleRoot)
		r.Get(page.PathHome, s.handleHome)
		r.Get(page.PathAbout, s.handleAbout)

		r.Route(page.PathConfig, func(r chi.Router) {
			r.Get("/", s.handleConfig)
			r.Post("/toggle", s.handleConfigToggle)
			r.Post("/toggle-all", s.handleConfigToggleAll)
			r.Post("/save", s.handleConfigSave)
			r.Post("/skip", s.handleConfigSkip)
		})
	})

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the session janitor and serves on addr until Stop is called.
// It returns nil once the server has been stopped, including when Stop
// wins the race against Start.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.janitor.Start()
	s.mu.Unlock()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Printf("Server starting on %s (sessions: %s)", ln.Addr(), s.sessions.Kind())
	err = s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the HTTP server down and stops the janitor. It is safe to
// call from another goroutine while Start is running.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	err := s.http.Shutdown(ctx)
	s.janitor.Stop()
	return err
}

// --- Page Handlers ---

// handleRoot initializes the host context and sends the user to the
// config page until onboarding is complete, then to the digest. Like every
// page other than config, it discards an unsaved config draft.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	s.initHost(r, st)
	st.Draft = page.Draft{}
	if !s.saveSession(w, r, st) {
		return
	}
	target := page.PathConfig
	if st.Onboarded {
		target = page.PathHome
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	host := s.initHost(r, st)
	st.Draft = page.Draft{}

	ctrl := page.NewHome(s.source, s.now, s.loc)
	ctrl.Load(r.Context())

	if !s.saveSession(w, r, st) {
		return
	}
	s.render(w, http.StatusOK, s.newPageVM(host, "home", "Daily Digest", homeVM{Home: ctrl, DigestView: ctrl.View()}))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	host := s.initHost(r, st)
	st.Draft = page.Draft{}

	if !s.saveSession(w, r, st) {
		return
	}
	s.render(w, http.StatusOK, s.newPageVM(host, "about", "About Rewind365", page.NewAbout()))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	if r.URL.Query().Get("retry") != "" {
		st.Draft = page.Draft{}
	}
	ctrl, host, ok := s.loadConfig(w, r, st)
	if !ok {
		return
	}
	s.renderConfig(w, http.StatusOK, host, ctrl)
}

func (s *Server) handleConfigToggle(w http.ResponseWriter, r *http.Request) {
	s.configAction(w, r, func(ctrl *page.Config) {
		id := r.PostFormValue("id")
		if id == "" {
			return
		}
		switch r.PostFormValue("kind") {
		case kindChannel:
			ctrl.ToggleChannel(id)
		case kindFolder:
			ctrl.ToggleFolder(id)
		}
	})
}

func (s *Server) handleConfigToggleAll(w http.ResponseWriter, r *http.Request) {
	s.configAction(w, r, func(ctrl *page.Config) {
		switch r.PostFormValue("kind") {
		case kindChannel:
			ctrl.ToggleAllChannels()
		case kindFolder:
			ctrl.ToggleAllFolders()
		}
	})
}

func (s *Server) handleConfigSave(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	ctrl, host, ok := s.loadConfig(w, r, st)
	if !ok {
		return
	}
	out, err := ctrl.Save(r.Context())
	if errors.Is(err, page.ErrEmptySelection) {
		s.renderConfig(w, http.StatusUnprocessableEntity, host, ctrl)
		return
	}
	s.finishConfig(w, r, st, out)
}

func (s *Server) handleConfigSkip(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	ctrl, _, ok := s.loadConfig(w, r, st)
	if !ok {
		return
	}
	s.finishConfig(w, r, st, ctrl.Skip(r.Context()))
}

// configAction loads the config page, applies a selection change and
// redirects back to the page.
func (s *Server) configAction(w http.ResponseWriter, r *http.Request, apply func(*page.Config)) {
	st := sessionFrom(r)
	ctrl, _, ok := s.loadConfig(w, r, st)
	if !ok {
		return
	}
	apply(ctrl)
	st.Draft = ctrl.Draft()
	if !s.saveSession(w, r, st) {
		return
	}
	http.Redirect(w, r, page.PathConfig, http.StatusSeeOther)
}

// loadConfig runs the Config controller's load sequence. When loading
// fails it renders the error page and returns ok == false.
func (s *Server) loadConfig(w http.ResponseWriter, r *http.Request, st *session.State) (*page.Config, *hostctx.Adapter, bool) {
	host := hostctx.Restore(st.Host)
	ctrl := page.NewConfig(s.source, st.Draft)
	err := ctrl.Load(r.Context(), host, hostctx.QueryHandshake(r.URL.Query()))
	st.Host = host.Snapshot()
	if err == nil {
		st.Draft = ctrl.Draft()
	}
	if !s.saveSession(w, r, st) {
		return nil, nil, false
	}
	if err != nil {
		s.renderConfig(w, http.StatusOK, host, ctrl)
		return nil, nil, false
	}
	return ctrl, host, true
}

func (s *Server) finishConfig(w http.ResponseWriter, r *http.Request, st *session.State, out page.Outcome) {
	if !out.Receipt.Delivered {
		log.Printf("config page: continuing without a confirmed save")
	}
	st.Onboarded = st.Onboarded || out.Onboarded
	st.Draft = page.Draft{}
	if !s.saveSession(w, r, st) {
		return
	}
	http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
}

func (s *Server) renderConfig(w http.ResponseWriter, status int, host *hostctx.Adapter, ctrl *page.Config) {
	s.render(w, status, s.newPageVM(host, "config", "Configure Rewind365", ctrl))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "healthy",
		"service":  "rewind365",
		"version":  s.version,
		"sessions": s.sessions.Kind(),
	})
}

// initHost restores the session's host context, initializing it from the
// request on first use.
func (s *Server) initHost(r *http.Request, st *session.State) *hostctx.Adapter {
	host := hostctx.Restore(st.Host)
	host.Initialize(r.Context(), hostctx.QueryHandshake(r.URL.Query()))
	st.Host = host.Snapshot()
	return host
}

// --- Helpers ---

func (s *Server) render(w http.ResponseWriter, status int, data pageVM) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

const (
	kindChannel = "channel"
	kindFolder  = "folder"
)

type pageVM struct {
	Name     string
	Title    string
	Theme    string
	InHost   bool
	UserName string
	Version  string
	Page     interface{}
}

func (s *Server) newPageVM(host *hostctx.Adapter, name, title string, p interface{}) pageVM {
	vm := pageVM{
		Name:    name,
		Title:   title,
		Theme:   host.Theme(),
		InHost:  host.InHost(),
		Version: s.version,
		Page:    p,
	}
	if hc, ok := host.Context(); ok && hc.User != nil {
		vm.UserName = hc.User.DisplayName
	}
	return vm
}

type homeVM struct {
	*page.Home
	DigestView digest.View
}

type pickerVM struct {
	Kind string
	selection.View
}

func newPickerVM(kind string, v selection.View) pickerVM {
	return pickerVM{Kind: kind, View: v}
}
