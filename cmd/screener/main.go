// Package main 是信用利差套利筛选器的入口点。
// 对同一发行人、不同到期日的公司债，基于历史利差差分分布标定
// 异常判定阈值，扫描错定价候选，并对多空对冲仓位做逐日回放回测。
//
// 重要：本系统仅用于研究/回测，严禁真实下单。
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"credit-spread-screener/internal/config"
	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/core/scan"
	"credit-spread-screener/internal/core/sim"
	"credit-spread-screener/internal/core/store"
	"credit-spread-screener/internal/dataset"
	"credit-spread-screener/internal/output/csvout"
	"credit-spread-screener/internal/output/jsonl"
	"credit-spread-screener/internal/stats/backtest"
	"credit-spread-screener/internal/stats/threshold"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "screener",
		Short:         "公司债信用利差套利筛选与回测",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "配置文件路径")

	root.AddCommand(&cobra.Command{
		Use:   "calibrate",
		Short: "仅标定套利阈值并输出统计量",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "backtest",
		Short: "完整回测：标定阈值、扫描机会、模拟交易并导出结果",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBacktest()
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// setup 加载配置并构建日志器
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.App.LogLevel)
	return cfg, logger, nil
}

// runCalibrate 加载数据并标定阈值
func runCalibrate() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	_, res, err := loadAndCalibrate(cfg, logger)
	if err != nil {
		logger.Error("阈值标定失败", zap.Error(err))
		return err
	}

	logger.Info("阈值标定完成",
		zap.Float64("n_std", cfg.Strategy.NStd),
		zap.Float64("threshold", res.Threshold),
		zap.Float64("mean", res.Mean),
		zap.Float64("std", res.Std),
		zap.Int("samples", res.Samples))
	return nil
}

// runBacktest 完整回测流程
func runBacktest() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	observations, res, err := loadAndCalibrate(cfg, logger)
	if err != nil {
		logger.Error("阈值标定失败", zap.Error(err))
		return err
	}
	logger.Info("套利阈值",
		zap.Float64("threshold", res.Threshold),
		zap.Float64("mean", res.Mean),
		zap.Float64("std", res.Std),
		zap.Int("samples", res.Samples))

	st := store.New(observations)

	// 扫描机会（先到先得，数量受 max_results 硬上限约束）
	scanner := scan.NewScanner(st, res.Threshold, cfg.Strategy, logger)
	opportunities := scanner.Scan()
	logger.Info("机会扫描完成", zap.Int("opportunities", len(opportunities)))

	if cfg.Output.OpportunitiesEnabled {
		w, err := jsonl.NewWriter(filepath.Join(cfg.Output.Dir, "opportunities.jsonl"))
		if err != nil {
			logger.Error("创建 opportunities writer 失败", zap.Error(err))
			return err
		}
		for i := range opportunities {
			if err := w.Write(opportunities[i].ToRecord()); err != nil {
				logger.Warn("写入机会失败", zap.Error(err))
			}
		}
		if err := w.Close(); err != nil {
			logger.Warn("关闭 opportunities writer 失败", zap.Error(err))
		}
	}

	// 逐日模拟；数据完整性错误使整个回测失败（快速失败）
	simulator := sim.NewSimulator(st, cfg.Trade, logger)
	trades, err := simulator.Run(opportunities)
	if err != nil {
		logger.Error("交易模拟失败", zap.Error(err))
		return err
	}

	if cfg.Output.TradesEnabled {
		w, err := jsonl.NewWriter(filepath.Join(cfg.Output.Dir, "trades.jsonl"))
		if err != nil {
			logger.Error("创建 trades writer 失败", zap.Error(err))
			return err
		}
		for i := range trades {
			if err := w.Write(trades[i].ToLogEntry()); err != nil {
				logger.Warn("写入交易记录失败", zap.Error(err))
			}
		}
		if err := w.Close(); err != nil {
			logger.Warn("关闭 trades writer 失败", zap.Error(err))
		}

		csvPath := filepath.Join(cfg.Output.Dir, "trades.csv")
		if err := csvout.WriteTrades(csvPath, trades); err != nil {
			logger.Error("导出交易 CSV 失败", zap.Error(err))
			return err
		}
	}

	calc := backtest.NewCalculator()
	calc.AddAll(trades)
	summary := calc.Stats()

	if cfg.Output.SummaryEnabled {
		w, err := jsonl.NewWriter(filepath.Join(cfg.Output.Dir, "summary.jsonl"))
		if err != nil {
			logger.Error("创建 summary writer 失败", zap.Error(err))
			return err
		}
		if err := w.Write(summary); err != nil {
			logger.Warn("写入汇总失败", zap.Error(err))
		}
		if err := w.Close(); err != nil {
			logger.Warn("关闭 summary writer 失败", zap.Error(err))
		}
	}

	logger.Info("回测完成",
		zap.Int("opportunities", len(opportunities)),
		zap.Float64("threshold", res.Threshold),
		zap.Int64("trade_records", summary.Records),
		zap.Int64("target_exits", summary.TargetExits),
		zap.Float64("win_rate", summary.WinRate),
		zap.Float64("total_profit", summary.TotalProfit),
		zap.Int64("missing_leg_days", simulator.MissingDays()))
	return nil
}

// loadAndCalibrate 加载观测表并标定阈值
func loadAndCalibrate(cfg *config.Config, logger *zap.Logger) ([]model.BondObservation, threshold.Result, error) {
	loader := dataset.NewLoader(cfg.Dataset, logger)
	observations, stats, err := loader.Load()
	if err != nil {
		return nil, threshold.Result{}, err
	}
	logger.Info("数据集加载完成",
		zap.Int("daily_rows_read", stats.DailyRowsRead),
		zap.Int("rows_dropped", stats.RowsDropped),
		zap.Int("rows_out_of_range", stats.RowsOutOfRange),
		zap.Int("rows_after_min_count", stats.RowsAfterMinCount),
		zap.Int("rows_after_dedup", stats.RowsAfterDedup),
		zap.Int("reference_securities", stats.ReferenceSecurities))

	res, err := threshold.Calibrate(observations, cfg.Strategy.NStd)
	if err != nil {
		return nil, threshold.Result{}, err
	}
	return observations, res, nil
}

// newLogger 构建 zap 日志器
func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
