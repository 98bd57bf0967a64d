// Package model 定义信用利差筛选器中使用的核心数据结构。
package model

import (
	"time"

	"credit-spread-screener/internal/util/timeutil"
)

// Opportunity 检测到的套利机会候选
// 同一发行人、不同到期日的相邻两条观测：短端利差异常高于长端，
// 且两腿的成交日期足够接近。由扫描器创建后不可变，
// 仅被模拟器消费一次，无持久化。
type Opportunity struct {
	// IssuerID 发行人标识
	IssuerID string
	// SecurityIDShort 短到期腿的证券代码
	SecurityIDShort string
	// SecurityIDLong 长到期腿的证券代码
	SecurityIDLong string
	// MaturityShort 短腿到期日
	MaturityShort time.Time
	// MaturityLong 长腿到期日
	MaturityLong time.Time
	// OpenDateShort 短腿开仓（观测）日期
	OpenDateShort time.Time
	// OpenDateLong 长腿开仓（观测）日期
	OpenDateLong time.Time
	// SpreadShort 触发时短腿的信用利差（诊断用）
	SpreadShort float64
	// SpreadLong 触发时长腿的信用利差（诊断用）
	SpreadLong float64
	// SpreadDiff 利差差值 SpreadLong - SpreadShort
	// 触发条件: SpreadDiff < 套利阈值
	SpreadDiff float64
}

// OpportunityRecord 套利机会的 JSONL 输出结构
type OpportunityRecord struct {
	// IssuerID 发行人标识
	IssuerID string `json:"issuer_id"`
	// SecurityIDShort 短腿证券代码
	SecurityIDShort string `json:"security_id_short"`
	// SecurityIDLong 长腿证券代码
	SecurityIDLong string `json:"security_id_long"`
	// MaturityShort 短腿到期日
	MaturityShort string `json:"maturity_short"`
	// MaturityLong 长腿到期日
	MaturityLong string `json:"maturity_long"`
	// OpenDateShort 短腿开仓日期
	OpenDateShort string `json:"open_date_short"`
	// OpenDateLong 长腿开仓日期
	OpenDateLong string `json:"open_date_long"`
	// SpreadShort 短腿信用利差
	SpreadShort float64 `json:"spread_short"`
	// SpreadLong 长腿信用利差
	SpreadLong float64 `json:"spread_long"`
	// SpreadDiff 利差差值
	SpreadDiff float64 `json:"spread_diff"`
}

// ToRecord 将 Opportunity 转换为 JSONL 输出格式
func (o *Opportunity) ToRecord() *OpportunityRecord {
	return &OpportunityRecord{
		IssuerID:        o.IssuerID,
		SecurityIDShort: o.SecurityIDShort,
		SecurityIDLong:  o.SecurityIDLong,
		MaturityShort:   timeutil.FormatDate(o.MaturityShort),
		MaturityLong:    timeutil.FormatDate(o.MaturityLong),
		OpenDateShort:   timeutil.FormatDate(o.OpenDateShort),
		OpenDateLong:    timeutil.FormatDate(o.OpenDateLong),
		SpreadShort:     o.SpreadShort,
		SpreadLong:      o.SpreadLong,
		SpreadDiff:      o.SpreadDiff,
	}
}
