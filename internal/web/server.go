// Package web serves the search page, result fragments and a JSON API.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"zotsearch/internal/biblio"
	"zotsearch/internal/logger"
	"zotsearch/internal/metrics"
	"zotsearch/internal/middleware"
	"zotsearch/internal/render"
	"zotsearch/internal/search"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	// HeaderSeq echoes the client's sequence number on result fragments.
	HeaderSeq = "X-Search-Seq"

	schemeCookie = "zotsearch_scheme"
	schemeLight  = "light"
	schemeDark   = "dark"
)

// Options tunes a Server.
type Options struct {
	// MetricsPath mounts the Prometheus handler; empty disables it.
	MetricsPath string
	// Timeout bounds each backend search.
	Timeout time.Duration
}

type Server struct {
	searcher  search.Searcher
	renderer  *render.Renderer
	templates *template.Template
	log       *logrus.Logger
	opts      Options
}

// resultsData feeds the "results" template.
type resultsData struct {
	Query  string
	Count  int
	Items  []render.View
	Blank  bool
	Failed bool
}

type pageData struct {
	Query      string
	Scheme     string
	NextScheme string
	Results    resultsData
}

// APIResponse is the body of /api/search.
type APIResponse struct {
	Query string        `json:"query"`
	Count int           `json:"count"`
	Items []render.View `json:"items"`
}

func NewServer(s search.Searcher, r *render.Renderer, log *logrus.Logger, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = search.DefaultTimeout
	}
	return &Server{
		searcher:  s,
		renderer:  r,
		templates: tmpl,
		log:       log,
		opts:      opts,
	}, nil
}

// Handler returns the routed and instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/api/search", s.handleAPISearch)
	mux.HandleFunc("/theme", s.handleTheme)
	mux.HandleFunc("/health", s.handleHealth)
	if s.opts.MetricsPath != "" {
		mux.Handle(s.opts.MetricsPath, promhttp.Handler())
	}

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogger(s.log),
		middleware.Instrument(s.routeLabel),
		middleware.CORS,
	)
}

func (s *Server) routeLabel(r *http.Request) string {
	switch p := r.URL.Path; p {
	case "/", "/search", "/api/search", "/theme", "/health":
		return p
	case s.opts.MetricsPath:
		return "/metrics"
	default:
		if strings.HasPrefix(p, "/static/") {
			return "/static/"
		}
		return "other"
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	scheme := schemeFrom(r)
	data := pageData{
		Query:      r.URL.Query().Get("q"),
		Scheme:     scheme,
		NextScheme: toggle(scheme),
	}
	res, status := s.run(r.Context(), data.Query)
	data.Results = res

	s.execute(w, r, status, "index.html", data)
}

// GET /search?q=...&seq=N
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if seq := q.Get("seq"); seq != "" {
		if _, err := strconv.ParseUint(seq, 10, 64); err == nil {
			w.Header().Set(HeaderSeq, seq)
		}
	}
	res, status := s.run(r.Context(), q.Get("q"))
	s.execute(w, r, status, "results", res)
}

// GET /api/search?q=...
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := biblio.NewQuery(r.URL.Query().Get("q"))
	if query.Empty() {
		writeJSON(w, http.StatusOK, APIResponse{Query: query.Q, Items: []render.View{}})
		return
	}

	views, count, err := s.search(r.Context(), query)
	if err != nil {
		code, msg := upstreamError(err)
		WriteError(w, http.StatusBadGateway, code, msg, nil)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Query: query.Q, Count: count, Items: views})
}

// GET /theme?scheme=light|dark
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	scheme := r.URL.Query().Get("scheme")
	switch scheme {
	case schemeLight, schemeDark:
	case "":
		scheme = toggle(schemeFrom(r))
	default:
		http.Error(w, "scheme must be light or dark", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     schemeCookie,
		Value:    scheme,
		Path:     "/",
		MaxAge:   365 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// run searches for raw and returns the results block with its HTTP status.
func (s *Server) run(ctx context.Context, raw string) (resultsData, int) {
	query := biblio.NewQuery(raw)
	if query.Empty() {
		return resultsData{Blank: true}, http.StatusOK
	}
	views, count, err := s.search(ctx, query)
	if err != nil {
		return resultsData{Query: query.Q, Failed: true}, http.StatusBadGateway
	}
	return resultsData{Query: query.Q, Count: count, Items: views}, http.StatusOK
}

func (s *Server) search(ctx context.Context, query biblio.Query) ([]render.View, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	defer logger.Track(ctx, "search")()

	resp, err := s.searcher.Search(ctx, query)
	if err != nil {
		logger.For(ctx).WithError(err).WithField("q", query.Q).Error("backend.search.failed")
		return nil, 0, err
	}

	views := s.renderer.RenderAll(resp.Data)
	for _, v := range views {
		metrics.DocumentsRendered.WithLabelValues(string(v.Kind)).Inc()
	}
	count := resp.Count
	if count < len(views) {
		count = len(views)
	}
	return views, count, nil
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.For(r.Context()).WithError(err).WithField("template", name).Error("template.failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func upstreamError(err error) (code, message string) {
	var se *search.StatusError
	switch {
	case errors.As(err, &se):
		return "upstream_error", fmt.Sprintf("search backend returned %d", se.StatusCode)
	case errors.Is(err, search.ErrContract):
		return "upstream_contract", "search backend returned an unexpected response"
	case errors.Is(err, context.DeadlineExceeded):
		return "upstream_timeout", "search backend timed out"
	default:
		return "upstream_unavailable", "search backend is unavailable"
	}
}

func schemeFrom(r *http.Request) string {
	if c, err := r.Cookie(schemeCookie); err == nil && c.Value == schemeDark {
		return schemeDark
	}
	return schemeLight
}

func toggle(scheme string) string {
	if scheme == schemeDark {
		return schemeLight
	}
	return schemeDark
}

// backTo returns the same-origin referer path, or "/".
func backTo(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	back := u.EscapedPath()
	if back == "" || back[0] != '/' {
		back = "/"
	}
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
