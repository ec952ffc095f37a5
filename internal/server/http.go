package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"TickerScope/internal/dashboard"
	"TickerScope/internal/model"
	"TickerScope/internal/render"
)

// HTTPServer serves the dashboard form, the rendered chart and a JSON API.
type HTTPServer struct {
	addr   string
	svc    *dashboard.Service
	router *gin.Engine
}

type HTTPConfig struct {
	Addr string
	Svc  *dashboard.Service
}

func NewHTTPServer(cfg HTTPConfig) (*HTTPServer, error) {
	if cfg.Svc == nil {
		return nil, errors.New("service is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8050"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	s := &HTTPServer{
		addr:   cfg.Addr,
		svc:    cfg.Svc,
		router: router,
	}
	s.registerRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) registerRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/chart", s.handleChartPage)
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	api := s.router.Group("/api")
	api.GET("/chart", s.handleChartJSON)
	api.GET("/config", s.handleConfig)
}

// parseRequest reads the dashboard inputs from query parameters, falling
// back to the configured defaults for anything not given.
func (s *HTTPServer) parseRequest(c *gin.Context) (dashboard.Request, error) {
	def := s.svc.Limits.Default()
	req := dashboard.Request{Ticker: c.DefaultQuery("ticker", def.Ticker), Windows: def.Windows}

	if raw, ok := c.GetQueryArray("ma"); ok {
		windows, err := dashboard.ParseWindows(raw)
		if err != nil {
			return req, err
		}
		req.Windows = windows
	}
	if v := c.Query("rsi"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: rsi must be true or false", model.ErrInvalidParameter)
		}
		req.IncludeRSI = on
	}
	var err error
	if req.Start, err = dashboard.ParseDate(c.Query("start"), def.Start); err != nil {
		return req, err
	}
	if req.End, err = dashboard.ParseDate(c.Query("end"), def.End); err != nil {
		return req, err
	}
	return req, nil
}

type indexView struct {
	Request        dashboard.Request
	Selected       map[int]bool
	AllowedWindows []int
	MinDate        string
	MaxDate        string
	ChartSrc       template.URL
	Error          string
}

func (s *HTTPServer) handleIndex(c *gin.Context) {
	l := s.svc.Limits
	req, err := s.parseRequest(c)
	if err == nil {
		req, err = l.Validate(req)
	}
	view := indexView{
		Request:        req,
		Selected:       make(map[int]bool, len(req.Windows)),
		AllowedWindows: l.AllowedWindows,
		MinDate:        l.MinDate.Format(time.DateOnly),
		MaxDate:        l.MaxDate.Format(time.DateOnly),
		ChartSrc:       template.URL("/chart?" + c.Request.URL.RawQuery),
	}
	for _, w := range req.Windows {
		view.Selected[w] = true
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadRequest
		view.Error = err.Error()
	}
	c.HTML(status, "index", view)
}

func (s *HTTPServer) handleChartPage(c *gin.Context) {
	desc, ok := s.render(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.HTML(c.Writer, desc); err != nil {
		log.Printf("[ERROR] render chart page: %v", err)
	}
}

func (s *HTTPServer) handleChartJSON(c *gin.Context) {
	desc, ok := s.render(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"chart": desc})
}

func (s *HTTPServer) render(c *gin.Context) (*model.ChartDescriptor, bool) {
	req, err := s.parseRequest(c)
	if err == nil {
		var desc *model.ChartDescriptor
		desc, err = s.svc.Render(c.Request.Context(), req)
		if err == nil {
			return desc, true
		}
	}
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidParameter) {
		status = http.StatusBadRequest
	} else {
		log.Printf("[ERROR] render %s: %v", req.Ticker, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
	return nil, false
}

func (s *HTTPServer) handleConfig(c *gin.Context) {
	l := s.svc.Limits
	c.JSON(http.StatusOK, gin.H{
		"allowed_windows": l.AllowedWindows,
		"default_windows": l.DefaultWindows,
		"rsi_window":      l.RSIWindow,
		"min_date":        l.MinDate.Format(time.DateOnly),
		"max_date":        l.MaxDate.Format(time.DateOnly),
		"default_start":   l.DefaultStart.Format(time.DateOnly),
		"default_end":     l.DefaultEnd.Format(time.DateOnly),
		"default_ticker":  l.DefaultTicker,
	})
}

// Start runs the HTTP server, blocking until ctx is cancelled or it fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Printf("[INFO] http server listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
