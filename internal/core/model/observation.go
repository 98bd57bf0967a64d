// Package model 定义信用利差筛选器中使用的核心数据结构。
// 包含债券观测、套利机会、交易记录等核心类型。
package model

import (
	"time"
)

// BondObservation 一条清洗后的债券日度观测
// 对应准备好的输入表中的一行：同一 (security, trade_date) 只有一行。
// 所有日期均已归一化为 UTC 零点。
type BondObservation struct {
	// SecurityID 债券唯一标识（证券代码）
	SecurityID string
	// IssuerID 发行人标识
	// 取证券代码的固定长度前缀（同一发行人的债券共享前缀）
	IssuerID string
	// TradeDate 交易日期（无时间分量）
	TradeDate time.Time
	// MaturityDate 到期日
	// 不变式：同一 SecurityID 的所有观测到期日相同
	MaturityDate time.Time
	// CreditSpread 信用利差
	// 已过滤到合理区间（如 [-0.01, 0.15]）
	CreditSpread float64
	// CleanPrice 净价（正数）
	CleanPrice float64
}

// IsValid 检查观测是否完整
// 有效条件: 证券代码非空、日期非零值、净价为正
func (o *BondObservation) IsValid() bool {
	return o.SecurityID != "" &&
		!o.TradeDate.IsZero() &&
		!o.MaturityDate.IsZero() &&
		o.CleanPrice > 0
}

// SameMaturity 判断两条观测是否属于同一到期档
// 相邻排序行到期日相同时不构成“到期跃迁”，不参与利差差分。
func (o *BondObservation) SameMaturity(other *BondObservation) bool {
	return o.MaturityDate.Equal(other.MaturityDate)
}
