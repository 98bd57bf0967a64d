// Package sim 实现套利对冲仓位的逐日回放模拟。
// 对每个机会从开仓日起逐自然日查价，计算利差收敛量，
// 在达到收敛目标时提前平仓，否则持有到最大期限。
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"credit-spread-screener/internal/config"
	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/core/store"
	"credit-spread-screener/internal/util/timeutil"
)

// Simulator 交易模拟器
// 各机会相互独立（无共享可变状态），输出顺序跟随机会发现顺序。
type Simulator struct {
	// st 观测表索引
	st *store.Store
	// cfg 交易模拟配置
	cfg config.TradeConfig
	// logger 日志
	logger *zap.Logger

	// missingDays 缺失观测的腿-日计数
	// 某腿在某个自然日没有观测时跳过该日（不插值、不沿用前值），
	// 计数用于观测与测试断言，不构成失败。
	missingDays int64
}

// NewSimulator 创建交易模拟器
// 参数 st: 观测表索引
// 参数 cfg: 交易模拟配置
// 参数 logger: 日志
func NewSimulator(st *store.Store, cfg config.TradeConfig, logger *zap.Logger) *Simulator {
	return &Simulator{
		st:     st,
		cfg:    cfg,
		logger: logger,
	}
}

// MissingDays 返回累计的缺失观测腿-日数
func (s *Simulator) MissingDays() int64 {
	return s.missingDays
}

// Run 依次模拟全部机会
// 任一机会触发数据完整性错误时整个回测失败（快速失败，
// 不静默跳过）。
// 返回: 交易日志（按机会顺序，每个被评估日一条记录）
func (s *Simulator) Run(opportunities []model.Opportunity) ([]model.TradeRecord, error) {
	var log []model.TradeRecord
	for i := range opportunities {
		records, err := s.Simulate(&opportunities[i])
		if err != nil {
			return nil, fmt.Errorf("模拟机会失败 (issuer=%s short=%s long=%s): %w",
				opportunities[i].IssuerID,
				opportunities[i].SecurityIDShort,
				opportunities[i].SecurityIDLong,
				err)
		}
		log = append(log, records...)
	}
	return log, nil
}

// Simulate 模拟单个机会
// 状态机: OPEN → (逐日检查: 达标提前平仓 | 继续持有) → 期限强制平仓。
// 开仓价查找必须恰好命中一行，否则返回 DataIntegrityError；
// 逐日查价缺失则跳过该日继续。
// 返回: 该机会的全部逐日记录（达标日为最后一条）
func (s *Simulator) Simulate(opp *model.Opportunity) ([]model.TradeRecord, error) {
	shortPriceOpen, err := s.openPrice(opp.SecurityIDShort, opp.MaturityShort, opp.OpenDateShort)
	if err != nil {
		return nil, err
	}
	longPriceOpen, err := s.openPrice(opp.SecurityIDLong, opp.MaturityLong, opp.OpenDateLong)
	if err != nil {
		return nil, err
	}

	initialSpread := shortPriceOpen - longPriceOpen
	s.logger.Debug("开仓",
		zap.String("security_id_short", opp.SecurityIDShort),
		zap.String("security_id_long", opp.SecurityIDLong),
		zap.Float64("short_price_open", shortPriceOpen),
		zap.Float64("long_price_open", longPriceOpen),
		zap.Float64("initial_spread", initialSpread))

	var records []model.TradeRecord
	for day := 1; day <= s.cfg.MaxHoldPeriodDays; day++ {
		tradeDate := timeutil.AddDays(opp.OpenDateShort, day)

		shortPriceClose, ok, err := s.closePrice(opp.SecurityIDShort, opp.MaturityShort, tradeDate)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		longPriceClose, ok, err := s.closePrice(opp.SecurityIDLong, opp.MaturityLong, tradeDate)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		currentSpread := shortPriceClose - longPriceClose
		spreadClosure := initialSpread - currentSpread
		// 损益按原始策略口径保留，不“修正”符号
		profit := (shortPriceClose - shortPriceOpen) + (longPriceOpen - longPriceClose)

		s.logger.Debug("逐日利差收敛",
			zap.String("security_id_short", opp.SecurityIDShort),
			zap.Int("day", day),
			zap.Float64("spread_closure", spreadClosure))

		rec := model.TradeRecord{
			SecurityIDShort: opp.SecurityIDShort,
			SecurityIDLong:  opp.SecurityIDLong,
			OpenDate:        opp.OpenDateShort,
			CloseDate:       tradeDate,
			ShortPriceOpen:  shortPriceOpen,
			LongPriceOpen:   longPriceOpen,
			ShortPriceClose: shortPriceClose,
			LongPriceClose:  longPriceClose,
			Profit:          profit,
			SpreadClosure:   spreadClosure,
		}

		// 达标提前平仓：记录实际持仓天数并终止该机会
		if spreadClosure >= s.cfg.TargetSpreadClosure {
			rec.HoldingPeriodDays = day
			rec.Reason = model.ExitTarget
			records = append(records, rec)
			return records, nil
		}

		// 未达标：当日记录的持仓天数固定记为最大期限，继续持有
		rec.HoldingPeriodDays = s.cfg.MaxHoldPeriodDays
		rec.Reason = model.ExitHorizon
		records = append(records, rec)
	}

	// 期限走完：最后一条记录即强制平仓结果
	return records, nil
}

// openPrice 开仓价精确查找
// 期望唯一行假设：零行或多行均视为数据完整性错误。
func (s *Simulator) openPrice(securityID string, maturity, tradeDate time.Time) (float64, error) {
	px, n := s.st.PriceAt(securityID, maturity, tradeDate)
	if n != 1 {
		return 0, &model.DataIntegrityError{
			SecurityID:   securityID,
			MaturityDate: maturity,
			TradeDate:    tradeDate,
			Matches:      n,
		}
	}
	return px, nil
}

// closePrice 逐日平仓价查找
// 零行：该腿当日无观测，跳过该日（计数并记 debug 日志）；
// 多行：唯一行假设被破坏，与开仓查找同样视为数据完整性错误。
func (s *Simulator) closePrice(securityID string, maturity, tradeDate time.Time) (float64, bool, error) {
	px, n := s.st.PriceAt(securityID, maturity, tradeDate)
	switch {
	case n == 0:
		s.missingDays++
		s.logger.Debug("当日无平仓观测，跳过",
			zap.String("security_id", securityID),
			zap.String("trade_date", timeutil.FormatDate(tradeDate)))
		return 0, false, nil
	case n > 1:
		return 0, false, &model.DataIntegrityError{
			SecurityID:   securityID,
			MaturityDate: maturity,
			TradeDate:    tradeDate,
			Matches:      n,
		}
	}
	return px, true, nil
}
