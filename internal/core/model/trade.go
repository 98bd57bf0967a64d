// Package model 定义信用利差筛选器中使用的核心数据结构。
package model

import (
	"time"

	"credit-spread-screener/internal/util/timeutil"
)

// ExitReason 平仓原因
type ExitReason string

const (
	// ExitTarget 利差收敛达标提前平仓
	// 当 spread_closure >= target_spread_closure 时触发
	ExitTarget ExitReason = "target"
	// ExitHorizon 持仓期限内未达标
	// 该日记录的 holding_period 记为 max_hold_period
	ExitHorizon ExitReason = "horizon"
)

// TradeRecord 一条模拟交易结果
// 模拟器对每个被评估的交易日（两腿当日均有观测）追加一条记录；
// 记录创建后不再修改，全部记录构成交易日志。
type TradeRecord struct {
	// SecurityIDShort 短到期腿的证券代码
	SecurityIDShort string
	// SecurityIDLong 长到期腿的证券代码
	SecurityIDLong string
	// OpenDate 开仓日期（短腿开仓日）
	OpenDate time.Time
	// CloseDate 平仓（评估）日期
	CloseDate time.Time
	// ShortPriceOpen 短腿开仓净价
	ShortPriceOpen float64
	// LongPriceOpen 长腿开仓净价
	LongPriceOpen float64
	// ShortPriceClose 短腿平仓净价
	ShortPriceClose float64
	// LongPriceClose 长腿平仓净价
	LongPriceClose float64
	// Profit 实现损益
	// 计算公式: (short_close - short_open) + (long_open - long_close)
	// 注意：该公式按原始策略口径保留，方向语义由回测口径固定。
	Profit float64
	// SpreadClosure 利差收敛量
	// 计算公式: initial_spread - current_spread（诊断用）
	SpreadClosure float64
	// HoldingPeriodDays 持仓天数
	// 提前平仓时为实际天数 day ∈ [1, max_hold_period]；
	// 未达标的当日记录固定记为 max_hold_period。
	HoldingPeriodDays int
	// Reason 平仓原因: target 或 horizon
	Reason ExitReason
}

// ClosedEarly 判断是否为达标提前平仓记录
func (r *TradeRecord) ClosedEarly() bool {
	return r.Reason == ExitTarget
}

// IsWin 判断是否盈利
func (r *TradeRecord) IsWin() bool {
	return r.Profit > 0
}

// TradeLogEntry 交易记录的 JSONL 输出结构
type TradeLogEntry struct {
	// SecurityIDShort 短腿证券代码
	SecurityIDShort string `json:"security_id_short"`
	// SecurityIDLong 长腿证券代码
	SecurityIDLong string `json:"security_id_long"`
	// OpenDate 开仓日期
	OpenDate string `json:"open_date"`
	// CloseDate 平仓日期
	CloseDate string `json:"close_date"`
	// ShortPriceOpen 短腿开仓净价
	ShortPriceOpen float64 `json:"short_price_open"`
	// LongPriceOpen 长腿开仓净价
	LongPriceOpen float64 `json:"long_price_open"`
	// ShortPriceClose 短腿平仓净价
	ShortPriceClose float64 `json:"short_price_close"`
	// LongPriceClose 长腿平仓净价
	LongPriceClose float64 `json:"long_price_close"`
	// Profit 实现损益
	Profit float64 `json:"profit"`
	// SpreadClosure 利差收敛量
	SpreadClosure float64 `json:"spread_closure"`
	// HoldingPeriod 持仓天数
	HoldingPeriod int `json:"holding_period"`
	// ExitReason 平仓原因
	ExitReason string `json:"exit_reason"`
}

// ToLogEntry 将 TradeRecord 转换为 JSONL 输出格式
func (r *TradeRecord) ToLogEntry() *TradeLogEntry {
	return &TradeLogEntry{
		SecurityIDShort: r.SecurityIDShort,
		SecurityIDLong:  r.SecurityIDLong,
		OpenDate:        timeutil.FormatDate(r.OpenDate),
		CloseDate:       timeutil.FormatDate(r.CloseDate),
		ShortPriceOpen:  r.ShortPriceOpen,
		LongPriceOpen:   r.LongPriceOpen,
		ShortPriceClose: r.ShortPriceClose,
		LongPriceClose:  r.LongPriceClose,
		Profit:          r.Profit,
		SpreadClosure:   r.SpreadClosure,
		HoldingPeriod:   r.HoldingPeriodDays,
		ExitReason:      string(r.Reason),
	}
}
