package config

// Config 是 Control Room 服务的主配置载体。
type Config struct {
	App     AppConfig     `toml:"app"`
	Lean    LeanConfig    `toml:"lean"`
	Catalog CatalogConfig `toml:"catalog"`
	Jobs    JobsConfig    `toml:"jobs"`
	Market  MarketConfig  `toml:"market"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// LeanConfig 描述外部 Lean 引擎的调用方式与工作目录。
type LeanConfig struct {
	// LauncherPath 指向 Lean Launcher 的 bin 目录（包含 QuantConnect.Lean.Launcher.dll）。
	LauncherPath string `toml:"launcher_path"`
	// BaseConfigPath 是引擎配置模板，按任务克隆后写入工作目录。
	BaseConfigPath string `toml:"base_config_path"`
	// StorageRoot 下按 jobId 建立隔离工作目录。
	StorageRoot string `toml:"storage_root"`
	// AlgorithmRoot 是 manifest entryPoint 的解析根目录。
	AlgorithmRoot string `toml:"algorithm_root"`
	// DataFolder 传给引擎的行情数据目录。
	DataFolder string `toml:"data_folder"`
}

type CatalogConfig struct {
	Path string `toml:"path"`
	// Watch 开启后通过 fsnotify 热加载算法清单。
	Watch bool `toml:"watch"`
}

type JobsConfig struct {
	// MaxConcurrent 限制同时运行的回测任务数。
	MaxConcurrent int `toml:"max_concurrent"`
	// RenderEquityChart 开启后在工作目录额外渲染权益曲线预览页。
	RenderEquityChart bool `toml:"render_equity_chart"`
}

type MarketConfig struct {
	// SampleDataPath 指向静态示例 K 线数据（SPY 日线）。
	SampleDataPath string `toml:"sample_data_path"`
}
