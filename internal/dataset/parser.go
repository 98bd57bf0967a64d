// Package dataset 负责加载并清洗债券日度数据，产出准备好的观测表。
// 输入为两个 CSV：日度成交数据与债券静态信息（到期日）。
// 清洗口径：离群利差过滤、缺失字段剔除、最少观测数过滤、全行去重。
package dataset

import (
	"fmt"
	"strings"
	"time"

	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/fastparse"
	"credit-spread-screener/internal/util/timeutil"
)

// 日度数据列名（按表头定位，忽略多余列）
const (
	colSecurityID = "cusip_id"
	colTradeDate  = "trd_exctn_dt"
	colSpread     = "cs"
	colCleanPrice = "prclean"
	colMaturity   = "maturity"
)

// dailyColumns 日度数据各字段的列下标
type dailyColumns struct {
	securityID int
	tradeDate  int
	spread     int
	cleanPrice int
}

// resolveDailyColumns 从表头定位日度数据字段
// 列名不区分大小写；缺少任一必需列时返回错误。
func resolveDailyColumns(header []string) (dailyColumns, error) {
	cols := dailyColumns{securityID: -1, tradeDate: -1, spread: -1, cleanPrice: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colSecurityID:
			cols.securityID = i
		case colTradeDate:
			cols.tradeDate = i
		case colSpread:
			cols.spread = i
		case colCleanPrice:
			cols.cleanPrice = i
		}
	}
	if cols.securityID < 0 || cols.tradeDate < 0 || cols.spread < 0 || cols.cleanPrice < 0 {
		return cols, fmt.Errorf("日度数据缺少必需列，期望 %s/%s/%s/%s",
			colSecurityID, colTradeDate, colSpread, colCleanPrice)
	}
	return cols, nil
}

// referenceColumns 静态信息各字段的列下标
type referenceColumns struct {
	securityID int
	maturity   int
}

// resolveReferenceColumns 从表头定位静态信息字段
func resolveReferenceColumns(header []string) (referenceColumns, error) {
	cols := referenceColumns{securityID: -1, maturity: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colSecurityID:
			cols.securityID = i
		case colMaturity:
			cols.maturity = i
		}
	}
	if cols.securityID < 0 || cols.maturity < 0 {
		return cols, fmt.Errorf("静态信息缺少必需列，期望 %s/%s", colSecurityID, colMaturity)
	}
	return cols, nil
}

// parseDailyRecord 将一行日度记录解析为 BondObservation
// 到期日由加载器在 join 阶段补充；字段缺失或无法解析时返回错误，
// 调用方按“剔除该行”处理（与原始清洗口径一致，不中断加载）。
// 参数 cols: 列下标
// 参数 record: CSV 行
// 参数 prefixLen: 发行人前缀长度
func parseDailyRecord(cols dailyColumns, record []string, prefixLen int) (model.BondObservation, error) {
	securityID := strings.TrimSpace(record[cols.securityID])
	if securityID == "" {
		return model.BondObservation{}, fmt.Errorf("证券代码为空")
	}

	tradeDate, err := timeutil.ParseDate(strings.TrimSpace(record[cols.tradeDate]))
	if err != nil {
		return model.BondObservation{}, fmt.Errorf("解析交易日期失败: %w", err)
	}

	spreadStr := strings.TrimSpace(record[cols.spread])
	if spreadStr == "" {
		return model.BondObservation{}, fmt.Errorf("信用利差为空")
	}
	spread, err := fastparse.ParseFloat(spreadStr)
	if err != nil {
		return model.BondObservation{}, fmt.Errorf("解析信用利差失败: %w", err)
	}

	priceStr := strings.TrimSpace(record[cols.cleanPrice])
	if priceStr == "" {
		return model.BondObservation{}, fmt.Errorf("净价为空")
	}
	price, err := fastparse.ParseFloat(priceStr)
	if err != nil {
		return model.BondObservation{}, fmt.Errorf("解析净价失败: %w", err)
	}

	return model.BondObservation{
		SecurityID:   securityID,
		IssuerID:     issuerPrefix(securityID, prefixLen),
		TradeDate:    tradeDate,
		CreditSpread: spread,
		CleanPrice:   price,
	}, nil
}

// parseReferenceRecord 将一行静态信息解析为 (证券代码, 到期日)
func parseReferenceRecord(cols referenceColumns, record []string) (string, time.Time, error) {
	securityID := strings.TrimSpace(record[cols.securityID])
	if securityID == "" {
		return "", time.Time{}, fmt.Errorf("证券代码为空")
	}
	maturity, err := timeutil.ParseDate(strings.TrimSpace(record[cols.maturity]))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("解析到期日失败: %w", err)
	}
	return securityID, maturity, nil
}

// issuerPrefix 取证券代码的发行人前缀
// 代码短于前缀长度时取整个代码。
func issuerPrefix(securityID string, prefixLen int) string {
	if len(securityID) <= prefixLen {
		return securityID
	}
	return securityID[:prefixLen]
}
