package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultAppHTTPAddr    = ":8000"
	defaultLauncherPath   = "/opt/lean/Launcher/bin/Release"
	defaultBaseConfig     = "configs/lean-config.template.json"
	defaultStorageRoot    = "/data/backtests"
	defaultAlgorithmRoot  = "algorithms"
	defaultDataFolder     = "/opt/lean/Data"
	defaultCatalogPath    = "configs/algorithms.json"
	defaultMaxConcurrent  = 2
	defaultSampleDataPath = "results/spy_daily_2016_2020.json"
)

// Load 读取 YAML 配置并完成默认值与基础校验。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = defaultAppEnv
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = defaultAppHTTPAddr
	}
	if c.Lean.LauncherPath == "" {
		c.Lean.LauncherPath = defaultLauncherPath
	}
	if c.Lean.BaseConfigPath == "" {
		c.Lean.BaseConfigPath = defaultBaseConfig
	}
	if c.Lean.StorageRoot == "" {
		c.Lean.StorageRoot = defaultStorageRoot
	}
	if c.Lean.AlgorithmRoot == "" {
		c.Lean.AlgorithmRoot = defaultAlgorithmRoot
	}
	if c.Lean.DataFolder == "" {
		c.Lean.DataFolder = defaultDataFolder
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Jobs.MaxConcurrent <= 0 {
		c.Jobs.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Market.SampleDataPath == "" {
		c.Market.SampleDataPath = defaultSampleDataPath
	}
}

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if c.Jobs.MaxConcurrent < 1 {
		return fmt.Errorf("jobs.max_concurrent must be >= 1")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path cannot be empty")
	}
	if c.Lean.StorageRoot == "" {
		return fmt.Errorf("lean.storage_root cannot be empty")
	}
	return nil
}
