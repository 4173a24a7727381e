package lean

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"controlroom/internal/catalog"
	"controlroom/internal/config"
)

const configFileName = "lean-config.json"

// Runner 封装一次回测任务的环境准备与引擎调用。
type Runner struct {
	cfg config.LeanConfig
	cat *catalog.Catalog

	// newCmd 构造引擎子进程，测试时替换为桩命令。
	newCmd func(configPath, workDir string) *exec.Cmd
}

func NewRunner(cfg config.LeanConfig, cat *catalog.Catalog) *Runner {
	r := &Runner{cfg: cfg, cat: cat}
	r.newCmd = func(configPath, workDir string) *exec.Cmd {
		cmd := exec.Command("dotnet", filepath.Join(cfg.LauncherPath, launcherDLL), "--config", configPath)
		cmd.Dir = workDir
		return cmd
	}
	return r
}

// PrepareParams 是准备执行环境所需的请求字段。
type PrepareParams struct {
	AlgorithmID string
	Symbol      string
	Timeframe   string
	StartDate   string
	EndDate     string
	Parameters  map[string]any
}

// Environment 描述准备好的隔离执行环境。
type Environment struct {
	JobDir     string
	ConfigPath string
	Manifest   catalog.Manifest
}

// Prepare 为任务构建隔离工作目录并写入最终引擎配置。
// 同一 jobId 的历史目录会先被清掉，重复准备是幂等的。
func (r *Runner) Prepare(jobID string, p PrepareParams) (Environment, error) {
	manifest, err := r.cat.Lookup(p.AlgorithmID)
	if err != nil {
		return Environment{}, err
	}

	jobDir, err := filepath.Abs(filepath.Join(r.cfg.StorageRoot, jobID))
	if err != nil {
		return Environment{}, err
	}
	if err := os.RemoveAll(jobDir); err != nil {
		return Environment{}, fmt.Errorf("clean job dir failed: %w", err)
	}
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Environment{}, fmt.Errorf("create job dir failed: %w", err)
	}

	base, err := r.loadBaseConfig()
	if err != nil {
		return Environment{}, err
	}

	entryPoint, err := filepath.Abs(filepath.Join(r.cfg.AlgorithmRoot, manifest.EntryPoint))
	if err != nil {
		return Environment{}, err
	}
	base["algorithm-location"] = entryPoint
	base["results-destination-folder"] = jobDir
	if r.cfg.DataFolder != "" {
		base["data-folder"] = r.cfg.DataFolder
	}
	if p.StartDate != "" {
		base["start-date"] = p.StartDate
	}
	if p.EndDate != "" {
		base["end-date"] = p.EndDate
	}

	// 引擎参数契约只接受字符串；请求参数覆盖 manifest 默认值，
	// symbol/timeframe 最后注入，优先级最高。
	params := map[string]string{}
	for k, v := range manifest.DefaultParameters {
		params[k] = v
	}
	for k, v := range p.Parameters {
		params[k] = stringify(v)
	}
	params["symbol"] = p.Symbol
	params["timeframe"] = p.Timeframe
	base["parameters"] = params

	configPath := filepath.Join(jobDir, configFileName)
	raw, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return Environment{}, err
	}
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		return Environment{}, fmt.Errorf("write lean config failed: %w", err)
	}

	return Environment{JobDir: jobDir, ConfigPath: configPath, Manifest: manifest}, nil
}

func (r *Runner) loadBaseConfig() (map[string]any, error) {
	raw, err := os.ReadFile(r.cfg.BaseConfigPath)
	if err != nil {
		return nil, fmt.Errorf("missing resource: %s: %w", r.cfg.BaseConfigPath, err)
	}
	var base map[string]any
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("base config %s invalid: %w", r.cfg.BaseConfigPath, err)
	}
	return base, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
