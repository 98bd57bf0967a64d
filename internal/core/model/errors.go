// Package model 定义信用利差筛选器中使用的核心数据结构。
package model

import (
	"errors"
	"fmt"
	"time"

	"credit-spread-screener/internal/util/timeutil"
)

// ErrInsufficientData 样本不足错误
// 阈值标定时合并后的利差差分样本不足（少于 2 条，标准差无定义）。
var ErrInsufficientData = errors.New("利差差分样本不足，无法标定套利阈值")

// DataIntegrityError 数据完整性错误
// (security, maturity, trade_date) 键上的唯一行假设被破坏：
// 期望恰好一行，实际得到零行或多行。该错误使整个回测失败，
// 而不是静默取第一行。
type DataIntegrityError struct {
	// SecurityID 出错的证券代码
	SecurityID string
	// MaturityDate 查询的到期日
	MaturityDate time.Time
	// TradeDate 查询的交易日期
	TradeDate time.Time
	// Matches 实际匹配行数（0 或 >1）
	Matches int
}

// Error 实现 error 接口
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("数据完整性错误: security=%s maturity=%s trade_date=%s 期望唯一行，实际匹配 %d 行",
		e.SecurityID,
		timeutil.FormatDate(e.MaturityDate),
		timeutil.FormatDate(e.TradeDate),
		e.Matches)
}
