// Package apihttp 暴露回测编排服务的 REST 接口。
package apihttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"controlroom/internal/backtest"
	"controlroom/internal/catalog"
	"controlroom/internal/marketdata"

	"github.com/gin-gonic/gin"
)

// Server 持有路由与依赖。
type Server struct {
	addr   string
	router *gin.Engine

	cat    *catalog.Catalog
	svc    *backtest.Service
	market *marketdata.Provider
}

// Config 描述 HTTP Server 的依赖。
type Config struct {
	Addr    string
	Catalog *catalog.Catalog
	Service *backtest.Service
	Market  *marketdata.Provider
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("service 不能为空")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("catalog 不能为空")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	s := &Server{
		addr:   cfg.Addr,
		router: router,
		cat:    cfg.Catalog,
		svc:    cfg.Service,
		market: cfg.Market,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleHealth)
	s.router.GET("/algorithms", s.handleAlgorithms)
	s.router.POST("/backtests", s.handleSubmit)
	s.router.GET("/backtests/:id", s.handleStatus)
	s.router.GET("/market-data", s.handleMarketData)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, s.cat.List())
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req backtest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := s.svc.Submit(req)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownAlgorithm) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown algorithm id"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": job.JobID, "status": job.Status})
}

func (s *Server) handleStatus(c *gin.Context) {
	job, ok := s.svc.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Backtest not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleMarketData(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol 必填"})
		return
	}
	if s.market == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": marketdata.ErrUnsupported.Error()})
		return
	}
	data, err := s.market.Query(symbol, c.DefaultQuery("timeframe", "1D"))
	if err != nil {
		if errors.Is(err, marketdata.ErrUnsupported) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// corsMiddleware 放行跨域请求，前端本地联调直接访问。
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler 暴露底层路由，测试时直接挂给 httptest。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动 HTTP 服务，阻塞直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

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
