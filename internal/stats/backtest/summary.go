// Package backtest 实现交易日志的汇总统计。
// 输入来自模拟器产出的 TradeRecord 序列，输出单次回测的
// 胜率、平均损益与平均持仓期等指标。
package backtest

import (
	"credit-spread-screener/internal/core/model"
)

// Summary 回测汇总统计
type Summary struct {
	// Records 交易日志总条数
	Records int64 `json:"records"`
	// TargetExits 达标提前平仓条数
	TargetExits int64 `json:"target_exits"`
	// HorizonRecords 未达标（持有中/强平口径）条数
	HorizonRecords int64 `json:"horizon_records"`

	// WinCount 盈利条数（profit > 0）
	WinCount int64 `json:"win_count"`
	// LossCount 非盈利条数（profit <= 0）
	LossCount int64 `json:"loss_count"`
	// WinRate 胜率
	WinRate float64 `json:"win_rate"`

	// TotalProfit 损益合计
	TotalProfit float64 `json:"total_profit"`
	// AvgProfit 平均损益
	AvgProfit float64 `json:"avg_profit"`
	// AvgHoldingDays 平均持仓天数
	AvgHoldingDays float64 `json:"avg_holding_days"`
}

// Calculator 交易日志汇总计算器
// 单次回测一次性累计全部记录，无滚动窗口。
type Calculator struct {
	count       int64
	targetExits int64
	winCount    int64
	sumProfit   float64
	sumHolding  int64
}

// NewCalculator 创建汇总计算器
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Add 累计一条交易记录
func (c *Calculator) Add(rec *model.TradeRecord) {
	if rec == nil {
		return
	}
	c.count++
	if rec.ClosedEarly() {
		c.targetExits++
	}
	if rec.IsWin() {
		c.winCount++
	}
	c.sumProfit += rec.Profit
	c.sumHolding += int64(rec.HoldingPeriodDays)
}

// AddAll 累计一批交易记录
func (c *Calculator) AddAll(records []model.TradeRecord) {
	for i := range records {
		c.Add(&records[i])
	}
}

// Stats 返回当前汇总统计
func (c *Calculator) Stats() Summary {
	out := Summary{
		Records:     c.count,
		TargetExits: c.targetExits,
		WinCount:    c.winCount,
	}
	if c.count <= 0 {
		return out
	}

	out.HorizonRecords = c.count - c.targetExits
	out.LossCount = c.count - c.winCount
	out.WinRate = float64(c.winCount) / float64(c.count)
	out.TotalProfit = c.sumProfit
	out.AvgProfit = c.sumProfit / float64(c.count)
	out.AvgHoldingDays = float64(c.sumHolding) / float64(c.count)

	return out
}
