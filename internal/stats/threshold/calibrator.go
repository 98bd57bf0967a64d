// Package threshold 实现套利阈值的统计标定。
// 对同一发行人、不同到期日的相邻观测做信用利差差分，
// 汇总全体发行人的差分分布，得到全局判定边界：
// threshold = mean(Δcs) - n_std × std(Δcs)
package threshold

import (
	"math"
	"sort"

	"credit-spread-screener/internal/core/model"
)

// Result 阈值标定结果
type Result struct {
	// Threshold 套利判定边界
	// 扫描器触发条件: spread_diff < Threshold
	Threshold float64
	// Mean 利差差分均值
	Mean float64
	// Std 利差差分样本标准差（ddof=1）
	Std float64
	// Samples 合并后的差分样本数
	Samples int
}

// Calibrate 标定全局套利阈值
// 算法：
//  1. 剔除字段缺失的行；
//  2. 按 (issuer_id, maturity_date) 稳定排序（并列保持原序）；
//  3. 组内仅在“到期跃迁”处（当前行到期日 ≠ 前一行到期日）
//     计算 cs 差分；同到期档的重复观测不产生差分；
//  4. 汇总全体发行人的差分，计算均值与样本标准差。
//
// 刻意汇总为单一全局阈值而非按发行人分别标定。
// 参数 observations: 准备好的观测表
// 参数 nStd: 阈值松紧度（正数，由调用方选定）
// 返回: 标定结果；差分样本不足 2 条时返回 ErrInsufficientData
func Calibrate(observations []model.BondObservation, nStd float64) (Result, error) {
	// 防御性过滤：加载器已保证字段完整，这里仍兜底一次
	rows := make([]model.BondObservation, 0, len(observations))
	for _, obs := range observations {
		if obs.SecurityID == "" || obs.MaturityDate.IsZero() {
			continue
		}
		rows = append(rows, obs)
	}

	// 稳定排序：发行人升序，组内到期日升序，并列保持原序
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].IssuerID != rows[j].IssuerID {
			return rows[i].IssuerID < rows[j].IssuerID
		}
		return rows[i].MaturityDate.Before(rows[j].MaturityDate)
	})

	// 组内差分：仅在到期跃迁处取 Δcs；每组首行无前驱，不产生差分
	var deltas []float64
	for i := 1; i < len(rows); i++ {
		prev, curr := &rows[i-1], &rows[i]
		if curr.IssuerID != prev.IssuerID {
			continue
		}
		if curr.SameMaturity(prev) {
			continue
		}
		deltas = append(deltas, curr.CreditSpread-prev.CreditSpread)
	}

	// 样本标准差要求至少 2 条差分，否则无定义
	if len(deltas) < 2 {
		return Result{}, model.ErrInsufficientData
	}

	var sum float64
	for _, d := range deltas {
		sum += d
	}
	mean := sum / float64(len(deltas))

	var ss float64
	for _, d := range deltas {
		diff := d - mean
		ss += diff * diff
	}
	std := math.Sqrt(ss / float64(len(deltas)-1))

	return Result{
		Threshold: mean - nStd*std,
		Mean:      mean,
		Std:       std,
		Samples:   len(deltas),
	}, nil
}
