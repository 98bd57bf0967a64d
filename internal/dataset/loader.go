// Package dataset 负责加载并清洗债券日度数据，产出准备好的观测表。
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"credit-spread-screener/internal/config"
	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/timeutil"
)

// LoadStats 加载与清洗各阶段的行数统计
type LoadStats struct {
	// DailyRowsRead 日度数据读取行数（不含表头）
	DailyRowsRead int
	// RowsDropped 解析失败、字段缺失或无到期日而剔除的行数
	RowsDropped int
	// RowsOutOfRange 利差越界剔除的行数
	RowsOutOfRange int
	// RowsAfterMinCount 最少观测数过滤后的行数
	RowsAfterMinCount int
	// RowsAfterDedup 全行去重后的行数（最终观测表大小）
	RowsAfterDedup int
	// ReferenceSecurities 静态信息中的证券数（去重后）
	ReferenceSecurities int
}

// Loader 数据集加载器
type Loader struct {
	// cfg 数据集配置
	cfg config.DatasetConfig
	// logger 日志
	logger *zap.Logger
}

// NewLoader 创建数据集加载器
// 参数 cfg: 数据集配置
// 参数 logger: 日志
func NewLoader(cfg config.DatasetConfig, logger *zap.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

// Load 加载并清洗数据，返回准备好的观测表
// 清洗顺序（与原始口径一致）：
//  1. join 到期日（无静态信息的行剔除）；
//  2. 利差越界过滤 [MinSpread, MaxSpread]；
//  3. 单只证券最少观测数过滤；
//  4. 全行去重。
func (l *Loader) Load() ([]model.BondObservation, LoadStats, error) {
	var stats LoadStats

	maturities, err := l.loadReference()
	if err != nil {
		return nil, stats, err
	}
	stats.ReferenceSecurities = len(maturities)

	f, err := os.Open(l.cfg.DailyPath)
	if err != nil {
		return nil, stats, fmt.Errorf("打开日度数据失败: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("读取日度数据表头失败: %w", err)
	}
	cols, err := resolveDailyColumns(header)
	if err != nil {
		return nil, stats, err
	}

	var rows []model.BondObservation
	for {
		if l.cfg.MaxRows > 0 && stats.DailyRowsRead >= l.cfg.MaxRows {
			break
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("读取日度数据失败: %w", err)
		}
		stats.DailyRowsRead++

		obs, err := parseDailyRecord(cols, record, l.cfg.IssuerPrefixLen)
		if err != nil {
			stats.RowsDropped++
			continue
		}

		// join 到期日：无静态信息的证券剔除
		maturity, ok := maturities[obs.SecurityID]
		if !ok {
			stats.RowsDropped++
			continue
		}
		obs.MaturityDate = maturity

		// 离群利差过滤
		if obs.CreditSpread < l.cfg.MinSpread || obs.CreditSpread > l.cfg.MaxSpread {
			stats.RowsOutOfRange++
			continue
		}

		rows = append(rows, obs)
	}

	// 最少观测数过滤：观测太少的证券整只剔除
	counts := make(map[string]int, len(rows))
	for i := range rows {
		counts[rows[i].SecurityID]++
	}
	filtered := rows[:0]
	for i := range rows {
		if counts[rows[i].SecurityID] >= l.cfg.MinObservations {
			filtered = append(filtered, rows[i])
		}
	}
	stats.RowsAfterMinCount = len(filtered)
	l.logger.Info("最少观测数过滤完成",
		zap.Int("min_observations", l.cfg.MinObservations),
		zap.Int("rows", stats.RowsAfterMinCount))

	// 全行去重：六个字段全部相同的行只保留第一条
	seen := make(map[model.BondObservation]struct{}, len(filtered))
	deduped := filtered[:0]
	for i := range filtered {
		if _, ok := seen[filtered[i]]; ok {
			continue
		}
		seen[filtered[i]] = struct{}{}
		deduped = append(deduped, filtered[i])
	}
	stats.RowsAfterDedup = len(deduped)
	l.logger.Info("去重完成",
		zap.Int("rows_before", stats.RowsAfterMinCount),
		zap.Int("rows_after", stats.RowsAfterDedup))

	out := make([]model.BondObservation, len(deduped))
	copy(out, deduped)
	return out, stats, nil
}

// loadReference 加载静态信息并建立 证券 → 到期日 映射
// 同一证券出现多行时取首次出现的行（防止 join 时笛卡尔积）。
func (l *Loader) loadReference() (map[string]time.Time, error) {
	f, err := os.Open(l.cfg.ReferencePath)
	if err != nil {
		return nil, fmt.Errorf("打开静态信息失败: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取静态信息表头失败: %w", err)
	}
	cols, err := resolveReferenceColumns(header)
	if err != nil {
		return nil, err
	}

	maturities := make(map[string]time.Time)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取静态信息失败: %w", err)
		}

		securityID, maturity, err := parseReferenceRecord(cols, record)
		if err != nil {
			// 到期日无法解析的行剔除，不中断加载
			continue
		}
		if _, ok := maturities[securityID]; ok {
			continue
		}
		maturities[securityID] = timeutil.Normalize(maturity)
	}

	return maturities, nil
}
