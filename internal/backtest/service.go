// Package backtest 实现任务生命周期编排：内存任务表、有界并发调度，
// 以及 准备 → 调用 → 定位 → 归一化 的流水线折叠。
package backtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"controlroom/internal/catalog"
	"controlroom/internal/lean"
	"controlroom/internal/logger"
	"controlroom/internal/report"

	"github.com/google/uuid"
)

// EngineRunner 抽象引擎环境准备与子进程调用，测试用桩引擎替换。
type EngineRunner interface {
	Prepare(jobID string, p lean.PrepareParams) (lean.Environment, error)
	Invoke(configPath, workDir string) (lean.Invocation, error)
}

// ServiceConfig 配置回测服务。
type ServiceConfig struct {
	Catalog *catalog.Catalog
	Runner  EngineRunner
	// MaxConcurrent 限制同时运行的引擎进程数，默认 2。
	MaxConcurrent int
	// RenderEquityChart 开启后在工作目录渲染权益曲线预览页。
	RenderEquityChart bool
}

// Service 持有任务表并驱动状态机。
// 任务由取到它的 worker 独占推进，读侧轮询只拿快照拷贝。
type Service struct {
	cat         *catalog.Catalog
	runner      EngineRunner
	renderChart bool

	sem chan struct{}

	mu   sync.RWMutex
	jobs map[string]*Record

	baseCtx context.Context
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog 不能为空")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner 不能为空")
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Service{
		cat:         cfg.Catalog,
		runner:      cfg.Runner,
		renderChart: cfg.RenderEquityChart,
		sem:         make(chan struct{}, maxConcurrent),
		jobs:        make(map[string]*Record),
		baseCtx:     context.Background(),
	}, nil
}

// SetContext 注入宿主 ctx，用于停机时让排队任务尽快落错。
func (s *Service) SetContext(ctx context.Context) {
	if ctx != nil {
		s.baseCtx = ctx
	}
}

func (s *Service) ctx() context.Context {
	if s.baseCtx == nil {
		return context.Background()
	}
	return s.baseCtx
}

// Submit 校验请求、落一条 queued 记录并异步派发，立即返回。
// 未知算法 ID 是客户端输入错误：不建任务记录。
func (s *Service) Submit(req Request) (Record, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return Record{}, fmt.Errorf("symbol 不能为空")
	}
	if strings.TrimSpace(req.Timeframe) == "" {
		return Record{}, fmt.Errorf("timeframe 不能为空")
	}
	if _, err := s.cat.Lookup(req.AlgorithmID); err != nil {
		return Record{}, err
	}

	job := &Record{
		JobID:       uuid.NewString(),
		Status:      StatusQueued,
		Symbol:      strings.ToUpper(req.Symbol),
		Timeframe:   req.Timeframe,
		Parameters:  req.Parameters,
		SubmittedAt: time.Now(),
	}
	// 回显快照必须在持锁期间取走：goroutine 一旦派发，worker 就可能开始改写记录。
	s.mu.Lock()
	s.jobs[job.JobID] = job
	snapshot := job.copy()
	s.mu.Unlock()
	logger.Infof("[backtest] 任务 %s 提交：algo=%s symbol=%s tf=%s", job.JobID, req.AlgorithmID, job.Symbol, job.Timeframe)

	go s.run(job.JobID, req)
	return snapshot, nil
}

// run 是 worker 主体：占用并发槽位后独占推进任务到终态。
// 任一阶段失败都折叠成错误记录，绝不让失败冲垮 worker 池。
func (s *Service) run(jobID string, req Request) {
	select {
	case s.sem <- struct{}{}:
	case <-s.ctx().Done():
		s.fail(jobID, "service shutting down")
		return
	}
	defer func() { <-s.sem }()

	s.update(jobID, func(j *Record) {
		j.Status = StatusRunning
	})
	logger.Infof("[backtest] 任务 %s 开始执行", jobID)

	result, err := s.execute(jobID, req)
	if err != nil {
		logger.Errorf("[backtest] 任务 %s 失败: %v", jobID, err)
		s.fail(jobID, err.Error())
		return
	}
	s.update(jobID, func(j *Record) {
		j.Status = StatusCompleted
		j.Error = ""
		j.Result = result
	})
	logger.Infof("[backtest] 任务 %s 完成：trades=%d orders=%d 用时=%.1fs",
		jobID, len(result.Trades), len(result.Orders), result.DurationSeconds)
}

// execute 依次执行 准备 → 调用 → 定位 → 归一化，任一阶段错误即返回。
func (s *Service) execute(jobID string, req Request) (*report.Result, error) {
	symbol := strings.ToUpper(req.Symbol)
	env, err := s.runner.Prepare(jobID, lean.PrepareParams{
		AlgorithmID: req.AlgorithmID,
		Symbol:      symbol,
		Timeframe:   req.Timeframe,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Parameters:  req.Parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("prepare environment: %w", err)
	}

	inv, err := s.runner.Invoke(env.ConfigPath, env.JobDir)
	if err != nil {
		return nil, err
	}

	arts, err := lean.LocateArtifacts(env.JobDir)
	if err != nil {
		return nil, err
	}

	summaryRaw, err := os.ReadFile(arts.SummaryPath)
	if err != nil {
		return nil, fmt.Errorf("read summary failed: %w", err)
	}
	// report 文件允许缺失：相关区块按空处理。
	reportRaw, _ := os.ReadFile(arts.ReportPath)

	res := report.Normalize(report.Input{
		JobID:           jobID,
		Symbol:          symbol,
		Timeframe:       req.Timeframe,
		Parameters:      req.Parameters,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Summary:         summaryRaw,
		Report:          reportRaw,
		DurationSeconds: inv.DurationSeconds,
		Artifacts: report.Artifacts{
			SummaryPath:     arts.SummaryPath,
			ReportPath:      arts.ReportPath,
			JobDir:          env.JobDir,
			Stdout:          trimmedOrNil(inv.Stdout),
			Stderr:          trimmedOrNil(inv.Stderr),
			OrderEventsPath: arts.OrderEventsPath,
			LogPath:         arts.LogPath,
		},
	})

	if s.renderChart && len(res.EquityCurve) > 0 {
		chartPath := filepath.Join(env.JobDir, "equity-curve.html")
		if err := report.RenderEquityChart(chartPath, "Strategy Equity "+symbol, res.EquityCurve); err != nil {
			logger.Warnf("[backtest] 任务 %s 权益曲线渲染失败: %v", jobID, err)
		} else {
			res.Artifacts.EquityChartPath = chartPath
		}
	}
	return &res, nil
}

// fail 用最小错误记录替换任务，保留回显字段。
func (s *Service) fail(jobID, message string) {
	s.update(jobID, func(j *Record) {
		j.Status = StatusError
		j.Error = message
		j.Result = nil
	})
}

func (s *Service) update(id string, fn func(*Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok && fn != nil {
		fn(job)
	}
}

// Snapshot 返回任务记录副本。
func (s *Service) Snapshot(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Record{}, false
	}
	return job.copy(), true
}

func trimmedOrNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
