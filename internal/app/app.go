// Package app 负责应用级编排：加载算法清单，组装回测服务与 HTTP 接口。
package app

import (
	"context"
	"fmt"

	"controlroom/internal/backtest"
	"controlroom/internal/catalog"
	crcfg "controlroom/internal/config"
	"controlroom/internal/lean"
	"controlroom/internal/logger"
	"controlroom/internal/marketdata"
	apihttp "controlroom/internal/transport/http/api"

	"golang.org/x/sync/errgroup"
)

// App 持有全部长生命周期组件；进程启动时创建，退出时整体回收。
type App struct {
	cfg *crcfg.Config
	cat *catalog.Catalog
	svc *backtest.Service
	srv *apihttp.Server
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *crcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load algorithm catalog failed: %w", err)
	}

	runner := lean.NewRunner(cfg.Lean, cat)
	svc, err := backtest.NewService(backtest.ServiceConfig{
		Catalog:           cat,
		Runner:            runner,
		MaxConcurrent:     cfg.Jobs.MaxConcurrent,
		RenderEquityChart: cfg.Jobs.RenderEquityChart,
	})
	if err != nil {
		return nil, fmt.Errorf("init backtest service failed: %w", err)
	}

	srv, err := apihttp.NewServer(apihttp.Config{
		Addr:    cfg.App.HTTPAddr,
		Catalog: cat,
		Service: svc,
		Market:  marketdata.NewProvider(cfg.Market.SampleDataPath),
	})
	if err != nil {
		return nil, fmt.Errorf("init http server failed: %w", err)
	}

	return &App{cfg: cfg, cat: cat, svc: svc, srv: srv}, nil
}

// Run 启动 HTTP 服务与清单监听，阻塞直到 ctx 取消或组件出错。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	a.svc.SetContext(ctx)
	logger.Infof("✓ 服务启动（env=%s，addr=%s，算法=%d）", a.cfg.App.Env, a.cfg.App.HTTPAddr, len(a.cat.List()))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.srv.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	if a.cfg.Catalog.Watch {
		group.Go(func() error {
			return a.cat.Watch(ctx)
		})
	}
	return group.Wait()
}
