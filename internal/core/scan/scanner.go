// Package scan 实现套利机会的发行人组扫描。
// 按 (maturity, trade_date) 排序后走相邻行对，在到期跃迁处
// 检查利差差值是否跌破标定阈值，并应用时间接近度与新鲜度过滤。
package scan

import (
	"iter"
	"sort"

	"go.uber.org/zap"

	"credit-spread-screener/internal/config"
	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/core/store"
	"credit-spread-screener/internal/util/timeutil"
)

// Scanner 机会扫描器
// 持有只读观测索引与标定好的阈值；自身无可变状态，
// 同一输入与参数下重复扫描产生逐字节相同的结果序列。
type Scanner struct {
	// st 观测表索引
	st *store.Store
	// threshold 标定好的套利阈值
	threshold float64
	// cfg 扫描策略配置
	cfg config.StrategyConfig
	// logger 日志
	logger *zap.Logger
}

// NewScanner 创建机会扫描器
// 参数 st: 观测表索引
// 参数 threshold: 标定好的套利阈值
// 参数 cfg: 扫描策略配置
// 参数 logger: 日志
func NewScanner(st *store.Store, threshold float64, cfg config.StrategyConfig, logger *zap.Logger) *Scanner {
	return &Scanner{
		st:        st,
		threshold: threshold,
		cfg:       cfg,
		logger:    logger,
	}
}

// Opportunities 返回机会的惰性序列
// 序列可重启（每次 range 从头扫描）；上限截断由消费方决定，
// 扫描器本身不持有 break 状态。发行人按字典序遍历，组内按
// (maturity, trade_date) 升序，因此输出顺序确定。
func (s *Scanner) Opportunities() iter.Seq[model.Opportunity] {
	return func(yield func(model.Opportunity) bool) {
		for _, issuerID := range s.st.Issuers() {
			cohort := s.st.Cohort(issuerID)
			if len(cohort) < s.cfg.MinCohortSize {
				continue
			}

			// 组内排序：到期日升序，其次交易日期升序（稳定，保证确定性）
			rows := make([]model.BondObservation, len(cohort))
			copy(rows, cohort)
			sort.SliceStable(rows, func(i, j int) bool {
				if !rows[i].MaturityDate.Equal(rows[j].MaturityDate) {
					return rows[i].MaturityDate.Before(rows[j].MaturityDate)
				}
				return rows[i].TradeDate.Before(rows[j].TradeDate)
			})

			for i := 1; i < len(rows); i++ {
				prev, curr := &rows[i-1], &rows[i]

				// 仅在到期跃迁处比较；同到期档的重复观测跳过
				if curr.SameMaturity(prev) {
					continue
				}

				// 两腿必须在接近的时间内成交，才构成同一可交易时点
				if timeutil.AbsDays(prev.TradeDate, curr.TradeDate) > s.cfg.MaxDateGapDays {
					continue
				}

				// 新鲜度过滤：短腿开仓日不得落在该证券全数据集
				// 最近 RecencyLookback 条观测内
				if s.st.IsRecent(prev.SecurityID, prev.TradeDate, s.cfg.RecencyLookback) {
					continue
				}

				spreadDiff := curr.CreditSpread - prev.CreditSpread
				if spreadDiff >= s.threshold {
					continue
				}

				opp := model.Opportunity{
					IssuerID:        issuerID,
					SecurityIDShort: prev.SecurityID,
					SecurityIDLong:  curr.SecurityID,
					MaturityShort:   prev.MaturityDate,
					MaturityLong:    curr.MaturityDate,
					OpenDateShort:   prev.TradeDate,
					OpenDateLong:    curr.TradeDate,
					SpreadShort:     prev.CreditSpread,
					SpreadLong:      curr.CreditSpread,
					SpreadDiff:      spreadDiff,
				}

				s.logger.Info("发现候选套利机会：短端利差异常高于长端",
					zap.String("issuer_id", issuerID),
					zap.String("security_id_short", prev.SecurityID),
					zap.String("security_id_long", curr.SecurityID),
					zap.Float64("spread_short", prev.CreditSpread),
					zap.Float64("spread_long", curr.CreditSpread),
					zap.Float64("spread_diff", spreadDiff),
					zap.Float64("threshold", s.threshold))

				if !yield(opp) {
					return
				}
			}
		}
	}
}

// Scan 收集前 MaxResults 个机会
// 机会按发现顺序截断（无幅度排名），上限是对回测规模的约束。
func (s *Scanner) Scan() []model.Opportunity {
	var out []model.Opportunity
	for opp := range s.Opportunities() {
		out = append(out, opp)
		if len(out) >= s.cfg.MaxResults {
			break
		}
	}
	return out
}
