// Package config 负责加载和验证 YAML 配置文件。
// 提供回测所需的所有配置项，包括数据集清洗参数、扫描策略参数、
// 交易模拟参数和输出设置。原始实现中的模块级常量（行数上限、
// 硬编码路径等）全部收敛到这里，由调用方显式传入各组件。
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 应用配置根结构
// 包含所有子模块的配置项
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// Dataset 数据集加载与清洗配置
	Dataset DatasetConfig `yaml:"dataset"`
	// Strategy 机会扫描策略配置
	Strategy StrategyConfig `yaml:"strategy"`
	// Trade 交易模拟配置
	Trade TradeConfig `yaml:"trade"`
	// Output 输出配置
	Output OutputConfig `yaml:"output"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// DatasetConfig 数据集加载与清洗配置
type DatasetConfig struct {
	// DailyPath 债券日度数据 CSV 路径
	// 至少包含 cusip_id, trd_exctn_dt, cs, prclean 四列
	DailyPath string `yaml:"daily_path"`
	// ReferencePath 债券静态信息 CSV 路径
	// 至少包含 cusip_id, maturity 两列；同一证券取首次出现的行
	ReferencePath string `yaml:"reference_path"`
	// MaxRows 日度数据最大读取行数（0 表示不限制）
	MaxRows int `yaml:"max_rows"`
	// MinSpread 信用利差下界（离群值过滤）
	MinSpread float64 `yaml:"min_spread"`
	// MaxSpread 信用利差上界（离群值过滤）
	MaxSpread float64 `yaml:"max_spread"`
	// MinObservations 单只证券最少观测条数，不足则整只剔除
	MinObservations int `yaml:"min_observations"`
	// IssuerPrefixLen 发行人标识长度（证券代码前缀）
	IssuerPrefixLen int `yaml:"issuer_prefix_len"`
}

// StrategyConfig 机会扫描策略配置
type StrategyConfig struct {
	// NStd 阈值松紧度
	// 套利阈值 = mean(Δcs) - n_std × std(Δcs)
	// 默认 2.0；应通过回测调优，而非固定常量。
	NStd float64 `yaml:"n_std"`
	// MinCohortSize 发行人组最小行数，不足则整组跳过
	MinCohortSize int `yaml:"min_cohort_size"`
	// MaxDateGapDays 两腿成交日期最大间隔（自然日，含端点）
	MaxDateGapDays int `yaml:"max_date_gap_days"`
	// RecencyLookback 新鲜度排除窗口
	// 短腿开仓日落在该证券全数据集最近 N 条观测内则跳过
	RecencyLookback int `yaml:"recency_lookback"`
	// MaxResults 机会数量硬上限（全局，先到先得）
	MaxResults int `yaml:"max_results"`
}

// TradeConfig 交易模拟配置
type TradeConfig struct {
	// TargetSpreadClosure 利差收敛平仓目标
	// 默认 0.001；应通过回测调优，而非固定常量。
	TargetSpreadClosure float64 `yaml:"target_spread_closure"`
	// MaxHoldPeriodDays 最大持仓期限（自然日）
	MaxHoldPeriodDays int `yaml:"max_hold_period_days"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	// Dir 输出目录
	Dir string `yaml:"dir"`
	// OpportunitiesEnabled 是否输出机会文件（opportunities.jsonl）
	OpportunitiesEnabled bool `yaml:"opportunities_enabled"`
	// TradesEnabled 是否输出交易日志（trades.jsonl 与 trades.csv）
	TradesEnabled bool `yaml:"trades_enabled"`
	// SummaryEnabled 是否输出汇总文件（summary.jsonl）
	SummaryEnabled bool `yaml:"summary_enabled"`
}

// Load 从文件加载配置并验证
// 参数 path: 配置文件路径
// 返回: 解析后的配置对象，若失败则返回错误
func Load(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析 YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	cfg.setDefaults()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() {
	// 应用默认值
	if c.App.Name == "" {
		c.App.Name = "credit-spread-screener"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	// 数据集默认值
	if c.Dataset.MaxRows == 0 {
		c.Dataset.MaxRows = 20_000_000
	}
	if c.Dataset.MinSpread == 0 && c.Dataset.MaxSpread == 0 {
		c.Dataset.MinSpread = -0.01
		c.Dataset.MaxSpread = 0.15
	}
	if c.Dataset.MinObservations == 0 {
		c.Dataset.MinObservations = 15
	}
	if c.Dataset.IssuerPrefixLen == 0 {
		c.Dataset.IssuerPrefixLen = 6
	}

	// 策略默认值
	if c.Strategy.NStd == 0 {
		c.Strategy.NStd = 2.0
	}
	if c.Strategy.MinCohortSize == 0 {
		c.Strategy.MinCohortSize = 64
	}
	if c.Strategy.MaxDateGapDays == 0 {
		c.Strategy.MaxDateGapDays = 15
	}
	if c.Strategy.RecencyLookback == 0 {
		c.Strategy.RecencyLookback = 20
	}
	if c.Strategy.MaxResults == 0 {
		c.Strategy.MaxResults = 5
	}

	// 交易模拟默认值
	if c.Trade.TargetSpreadClosure == 0 {
		c.Trade.TargetSpreadClosure = 0.001
	}
	if c.Trade.MaxHoldPeriodDays == 0 {
		c.Trade.MaxHoldPeriodDays = 30
	}

	// 输出默认值
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
}

// Validate 验证配置合法性
// 检查所有必填项和数值范围
// 返回: 若配置无效则返回描述性错误
func (c *Config) Validate() error {
	var errs []string

	// 验证数据集配置
	if c.Dataset.DailyPath == "" {
		errs = append(errs, "dataset.daily_path: 日度数据路径不能为空")
	}
	if c.Dataset.ReferencePath == "" {
		errs = append(errs, "dataset.reference_path: 静态信息路径不能为空")
	}
	if c.Dataset.MaxRows < 0 {
		errs = append(errs, "dataset.max_rows: 最大读取行数不能为负数")
	}
	if c.Dataset.MinSpread >= c.Dataset.MaxSpread {
		errs = append(errs, fmt.Sprintf("dataset.min_spread/max_spread: 利差下界必须小于上界，当前 [%f, %f]",
			c.Dataset.MinSpread, c.Dataset.MaxSpread))
	}
	if c.Dataset.MinObservations <= 0 {
		errs = append(errs, "dataset.min_observations: 最少观测条数必须为正数")
	}
	if c.Dataset.IssuerPrefixLen <= 0 {
		errs = append(errs, "dataset.issuer_prefix_len: 发行人前缀长度必须为正数")
	}

	// 验证策略参数
	if c.Strategy.NStd <= 0 {
		errs = append(errs, "strategy.n_std: 阈值松紧度必须为正数")
	}
	if c.Strategy.MinCohortSize <= 0 {
		errs = append(errs, "strategy.min_cohort_size: 发行人组最小行数必须为正数")
	}
	if c.Strategy.MaxDateGapDays < 0 {
		errs = append(errs, "strategy.max_date_gap_days: 日期间隔不能为负数")
	}
	if c.Strategy.RecencyLookback < 0 {
		errs = append(errs, "strategy.recency_lookback: 新鲜度窗口不能为负数")
	}
	if c.Strategy.MaxResults <= 0 {
		errs = append(errs, "strategy.max_results: 机会数量上限必须为正数")
	}

	// 验证交易模拟参数
	if c.Trade.TargetSpreadClosure <= 0 {
		errs = append(errs, "trade.target_spread_closure: 收敛平仓目标必须为正数")
	}
	if c.Trade.MaxHoldPeriodDays <= 0 {
		errs = append(errs, "trade.max_hold_period_days: 最大持仓期限必须为正数")
	}

	// 验证日志级别
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
