package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/factwatch/internal/config"
	"github.com/agenthands/factwatch/internal/relayclient"
	"github.com/agenthands/factwatch/internal/session"
	"github.com/agenthands/factwatch/internal/upstream"
	"github.com/agenthands/factwatch/internal/view"
)

type Server struct {
	Config   *config.Config
	Claims   *upstream.ClaimsClient
	Threats  *upstream.ThreatsClient
	Sessions *session.Store
	// Relay is what the pages call. By default it is this server's own
	// relay endpoints reached over HTTP.
	Relay  view.Relay
	Logger *slog.Logger

	templates *template.Template
}

func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout.Duration}

	return &Server{
		Config:    cfg,
		Claims:    upstream.NewClaimsClient(cfg.FactCheck, httpClient, cfg.HTTP.MaxBodyBytes, logger.With("component", "claims")),
		Threats:   upstream.NewThreatsClient(cfg.SafeBrowsing, httpClient, cfg.HTTP.MaxBodyBytes, logger.With("component", "threats")),
		Sessions:  session.NewStore(cfg.Session.TTL.Duration, cfg.Session.CleanupInterval.Duration, cfg.FactCheck.DefaultLang, cfg.FactCheck.PageSize),
		Relay:     relayclient.New(cfg.RelayBaseURL(), httpClient),
		Logger:    logger,
		templates: loadTemplates(),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.Logger.With("component", "http")))
	r.SetHTMLTemplate(s.templates)

	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	api.GET("/factcheck", s.FactCheck)
	api.GET("/httpcheck", s.HTTPCheck)

	pages := r.Group("/", s.SessionMiddleware())
	pages.GET("/", s.SearchPage)
	pages.POST("/search", s.SubmitSearch)
	pages.POST("/search/more", s.LoadMore)
	pages.GET("/httpcheck", s.CheckPage)
	pages.POST("/httpcheck", s.SubmitCheck)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
