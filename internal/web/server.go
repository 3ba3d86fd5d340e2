// Package web serves the browser front end: one form per operation, plus
// JSON endpoints for recent logs and metrics.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"futuresbot/config"
	"futuresbot/internal/actions"
	"futuresbot/internal/metrics"
	"futuresbot/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	requestIDField  = "request_id"
	requestIDHeader = "X-Request-ID"

	// MissingCredentials is shown on every page when API_KEY or API_SECRET
	// is not set.
	MissingCredentials = "API Key or Secret not found in .env file!"
)

// Server hosts the trading form. A nil runner means credentials were
// missing at startup: every page shows MissingCredentials and nothing runs.
type Server struct {
	cfg           config.WebConfig
	appName       string
	log           *logger.Log
	runner        *actions.Runner
	validate      *validator.Validate
	logs          *logBuffer
	metrics       *metricBuffer
	metricHandler metrics.MetricHandlerID
	httpServer    *http.Server
}

func NewServer(cfg config.WebConfig, appName string, runner *actions.Runner, log *logger.Log) *Server {
	cfg.Address = normalizeAddress(cfg.Address)

	logs := newLogBuffer(cfg.LogHistory)
	log.AddHook(logs)

	buf := newMetricBuffer(cfg.LogHistory)

	return &Server{
		cfg:           cfg,
		appName:       appName,
		log:           log,
		runner:        runner,
		validate:      validator.New(),
		logs:          logs,
		metrics:       buf,
		metricHandler: metrics.RegisterMetricHandler(buf.handle),
	}
}

// Address reports the listen address after normalization.
func (s *Server) Address() string {
	return s.cfg.Address
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	router, err := s.Handler()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.WithComponent("web").WithFields(logger.Fields{"address": s.cfg.Address}).Info("web server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Close detaches the server from the log and metric streams.
func (s *Server) Close() {
	metrics.UnregisterMetricHandler(s.metricHandler)
	s.metricHandler = 0
	s.logs.close()
}

// Handler builds the gin router.
func (s *Server) Handler() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	tmpl, err := template.New("index.tmpl").ParseFS(templateFS, "templates/index.tmpl")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.handleIndex)
	router.POST("/run/:op", s.handleRun)

	router.GET("/healthz", func(c *gin.Context) {
		if s.runner == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "missing_credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/api/logs", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		records := s.logs.snapshot(limit)
		payload := make([]gin.H, 0, len(records))
		for _, r := range records {
			payload = append(payload, gin.H{
				"timestamp":  r.Timestamp.Format(time.RFC3339Nano),
				"level":      r.Level,
				"component":  r.Component,
				"request_id": r.RequestID,
				"message":    r.Message,
				"fields":     r.Fields,
			})
		}
		c.JSON(http.StatusOK, gin.H{"logs": payload})
	})

	router.GET("/api/metrics", func(c *gin.Context) {
		snapshot := s.metrics.snapshot()
		payload := make([]gin.H, 0, len(snapshot))
		for _, m := range snapshot {
			payload = append(payload, gin.H{
				"timestamp": m.Timestamp.Format(time.RFC3339Nano),
				"component": m.Component,
				"name":      m.Name,
				"value":     m.Value,
				"type":      m.Type,
				"fields":    m.Fields,
			})
		}
		c.JSON(http.StatusOK, gin.H{"metrics": payload})
	})

	return router, nil
}

// requestID tags the request context, response and access log with a
// correlation id, reusing the caller's X-Request-ID when present.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx := logger.ContextWithFields(c.Request.Context(), logger.Fields{requestIDField: id})
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.LogPerformanceEntry(s.log.WithContext(ctx), "web", c.Request.Method+" "+c.FullPath(), time.Since(start), logger.Fields{
			"status": c.Writer.Status(),
		})
	}
}

type kindOption struct {
	Value    string
	Title    string
	Selected bool
}

type page struct {
	AppName   string
	Kinds     []kindOption
	Op        string
	Title     string
	Form      map[string]string
	Result    *actions.Result
	Invalid   string
	Fatal     string
	RequestID string
}

func (s *Server) newPage(c *gin.Context, kind actions.Kind) page {
	p := page{
		AppName:   s.appName,
		Op:        string(kind),
		Title:     kind.Title(),
		Form:      map[string]string{"symbol": "BTCUSDT", "side": "BUY"},
		RequestID: c.Writer.Header().Get(requestIDHeader),
	}
	if kind == actions.PositionInfo {
		p.Form["symbol"] = ""
	}
	for _, k := range actions.Kinds {
		p.Kinds = append(p.Kinds, kindOption{Value: string(k), Title: k.Title(), Selected: k == kind})
	}
	if s.runner == nil {
		p.Fatal = MissingCredentials
	}
	return p
}

func (s *Server) render(c *gin.Context, p page) {
	status := http.StatusOK
	switch {
	case p.Fatal != "":
		status = http.StatusServiceUnavailable
	case p.Invalid != "":
		status = http.StatusBadRequest
	}
	c.HTML(status, "index.tmpl", p)
}

func (s *Server) handleIndex(c *gin.Context) {
	kind := actions.Kind(c.DefaultQuery("op", string(actions.MarketOrder)))
	if !kind.Valid() {
		kind = actions.MarketOrder
	}
	s.render(c, s.newPage(c, kind))
}

func (s *Server) handleRun(c *gin.Context) {
	kind := actions.Kind(c.Param("op"))
	if !kind.Valid() {
		c.String(http.StatusNotFound, "unknown operation %q", c.Param("op"))
		return
	}

	p := s.newPage(c, kind)
	if p.Fatal != "" {
		s.render(c, p)
		return
	}

	ctx := c.Request.Context()
	var result actions.Result

	switch kind {
	case actions.MarketOrder, actions.LimitOrder, actions.StopLimitOrder:
		var form orderForm
		if !s.bind(c, &form, &p) {
			return
		}
		p.Form = form.values()
		switch kind {
		case actions.MarketOrder:
			result = s.runner.PlaceMarketOrder(ctx, form.Symbol, form.Side, form.Quantity)
		case actions.LimitOrder:
			result = s.runner.PlaceLimitOrder(ctx, form.Symbol, form.Side, form.Quantity, form.Price)
		default:
			result = s.runner.PlaceStopLimitOrder(ctx, form.Symbol, form.Side, form.Quantity, form.StopPrice, form.LimitPrice)
		}
	case actions.OrderStatus:
		var form statusForm
		if !s.bind(c, &form, &p) {
			return
		}
		p.Form = form.values()
		result = s.runner.CheckOrderStatus(ctx, form.Symbol, form.OrderID)
	case actions.AccountBalance:
		result = s.runner.AccountBalance(ctx)
	case actions.PositionInfo:
		var form positionsForm
		if !s.bind(c, &form, &p) {
			return
		}
		p.Form = form.values()
		result = s.runner.PositionInfo(ctx, form.Symbol)
	}

	p.Result = &result
	s.render(c, p)
}

// bind decodes the posted form into dst and validates it. On failure it
// renders the page and returns false.
func (s *Server) bind(c *gin.Context, dst interface{ values() map[string]string }, p *page) bool {
	if err := c.ShouldBind(dst); err != nil {
		p.Invalid = err.Error()
		s.render(c, *p)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		p.Form = dst.values()
		p.Invalid = formatValidationError(err)
		s.log.WithContext(c.Request.Context()).WithComponent("web").WithFields(logger.Fields{
			"operation": p.Op,
		}).Warnf("Rejected form input: %s", strings.ReplaceAll(p.Invalid, "\n", "; "))
		s.render(c, *p)
		return false
	}
	return true
}
