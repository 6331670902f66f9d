package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"jira-gantt/chart"
	"jira-gantt/config"
	"jira-gantt/gantt"
	"jira-gantt/jira"
	"jira-gantt/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server handles HTTP requests
type Server struct {
	Router *chi.Mux
	config config.Config
	client *jira.Client
	now    func() time.Time
}

// NewServer creates a new web server
func NewServer(cfg config.Config) *Server {
	s := &Server{
		config: cfg,
		client: jira.NewClient(cfg),
		now:    time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Request logging middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute)) // 2 minute timeout for API requests

	// Health check endpoint
	r.Get("/health", s.healthCheck)

	// API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", s.listProjects)
		r.Route("/projects/{key}", func(r chi.Router) {
			r.Get("/versions/{scale}.svg", s.versionChart)
			r.Get("/epics/{scale}.svg", s.epicChart)
			r.Get("/timeline", s.timeline)
		})
	})

	s.Router = r
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "jira-gantt",
	})
}

// listProjects returns the (key, name) pairs of visible projects
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.client.Projects(r.Context())
	if err != nil {
		s.fail(w, "Error fetching projects", err)
		return
	}

	refs := make([]jira.ProjectRef, 0, len(projects))
	for _, p := range projects {
		refs = append(refs, jira.ProjectRef{Key: p.Key, Name: p.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "success",
		"projects": refs,
	})
}

func (s *Server) versionChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, "versions")
}

func (s *Server) epicChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, "epics")
}

// renderChart streams one scale of a project's chart as SVG
func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, kind string) {
	scale, err := gantt.ParseScale(chi.URLParam(r, "scale"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := s.generator(r, kind)
	if err != nil {
		s.fail(w, "Error fetching chart data", err)
		return
	}

	// Render fully before writing so errors still get a proper status
	var buf bytes.Buffer
	if err := g.Render(&buf, scale); err != nil {
		s.fail(w, "Error rendering chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// timeline returns the metrics of a project's chart
func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "versions"
	}
	if kind != "versions" && kind != "epics" {
		http.Error(w, "kind must be versions or epics", http.StatusBadRequest)
		return
	}

	g, err := s.generator(r, kind)
	if err != nil {
		s.fail(w, "Error fetching chart data", err)
		return
	}
	p, err := g.Build()
	if err != nil {
		s.fail(w, "Error building chart", err)
		return
	}

	response := map[string]interface{}{
		"status":    "success",
		"data":      metrics.CalculateTimelineMetrics(p, g.Skipped, s.now()),
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func (s *Server) generator(r *http.Request, kind string) (*chart.Generator, error) {
	ctx := r.Context()
	project, err := s.client.Project(ctx, chi.URLParam(r, "key"))
	if err != nil {
		return nil, err
	}

	var g *chart.Generator
	if kind == "epics" {
		epics, err := s.client.Epics(ctx, project.Key)
		if err != nil {
			return nil, err
		}
		g = chart.NewEpicChart(project, epics)
	} else {
		g = chart.NewVersionChart(project)
	}
	g.Today = s.now
	return g, nil
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	log.Printf("❌ %s: %v", msg, err)
	status := http.StatusInternalServerError
	var apiErr *jira.APIError
	switch {
	case errors.Is(err, jira.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	}
	http.Error(w, msg, status)
}

// Start starts the web server
func (s *Server) Start(port string) error {
	log.Printf("🚀 Starting Jira Gantt Server on port %s", port)
	log.Printf("📊 Available endpoints:")
	log.Printf("   GET /health - Health check")
	log.Printf("   GET /api/projects - Visible projects")
	log.Printf("   GET /api/projects/{key}/versions/{daily|weekly}.svg - Version chart")
	log.Printf("   GET /api/projects/{key}/epics/{daily|weekly}.svg - Epic chart")
	log.Printf("   GET /api/projects/{key}/timeline?kind=versions|epics - Timeline metrics")

	return http.ListenAndServe(":"+port, s.Router)
}
