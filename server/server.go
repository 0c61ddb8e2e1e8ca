package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"presentation_agent/generator"
	"presentation_agent/logger"
	"presentation_agent/publisher"
)

// Builder is the part of generator.Agent the server needs.
type Builder interface {
	Run(ctx context.Context, sess *generator.Session) (generator.Document, error)
}

type Server struct {
	builder      Builder
	log          *logger.Logger
	store        *resultStore
	buildTimeout time.Duration
}

// presentation is a finished build kept in memory.
type presentation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	XML       string    `json:"xml"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}

type resultStore struct {
	mu    sync.Mutex
	items map[string]presentation
}

func newStore() *resultStore {
	return &resultStore{items: make(map[string]presentation)}
}

func (s *resultStore) set(p presentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
}

func (s *resultStore) get(id string) (presentation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	return p, ok
}

// New wires the HTTP API. buildTimeout <= 0 means no deadline beyond the request's own.
func New(builder Builder, log *logger.Logger, buildTimeout time.Duration) (*Server, error) {
	if builder == nil {
		return nil, errors.New("presentation builder required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		builder:      builder,
		log:          log,
		store:        newStore(),
		buildTimeout: buildTimeout,
	}, nil
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("presentation-agent"))
	r.Use(s.logMiddleware())

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	api := r.Group("/api")
	{
		api.POST("/presentations", s.handleCreate)
		api.GET("/presentations/:id", s.handleGet)
		api.GET("/presentations/:id/html", s.handleGetHTML)
	}
	return r
}

// --- Handlers ---

type createReq struct {
	Text string `json:"text"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", generator.ErrEmptyInput)
		return
	}

	ctx := c.Request.Context()
	if s.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.buildTimeout)
		defer cancel()
	}
	id := uuid.NewString()
	doc, err := s.builder.Run(ctx, generator.NewSession(id, req.Text))
	if err != nil {
		respondError(c, http.StatusBadGateway, "build_failed", err)
		return
	}
	page, err := publisher.RenderHTML(doc)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	p := presentation{ID: id, Title: doc.Title, XML: doc.XML(), HTML: page, CreatedAt: time.Now()}
	s.store.set(p)
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleGet(c *gin.Context) {
	p, ok := s.store.get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", errors.New("presentation not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleGetHTML(c *gin.Context) {
	p, ok := s.store.get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", errors.New("presentation not found"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.HTML))
}

// --- Helpers ---

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if path == "" {
			path = "/"
		}
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
