// Package dataset 解析函数测试
package dataset

import (
	"testing"
	"time"
)

func TestResolveDailyColumns(t *testing.T) {
	// 列名大小写不敏感，多余列忽略
	header := []string{"CUSIP_ID", "bond_type", "trd_exctn_dt", "CS", "prclean", "yield"}
	cols, err := resolveDailyColumns(header)
	if err != nil {
		t.Fatalf("resolveDailyColumns 失败: %v", err)
	}
	if cols.securityID != 0 || cols.tradeDate != 2 || cols.spread != 3 || cols.cleanPrice != 4 {
		t.Fatalf("列下标错误: %+v", cols)
	}

	// 缺少必需列
	if _, err := resolveDailyColumns([]string{"cusip_id", "trd_exctn_dt", "cs"}); err == nil {
		t.Fatalf("缺少 prclean 列应报错")
	}
}

func TestResolveReferenceColumns(t *testing.T) {
	cols, err := resolveReferenceColumns([]string{"maturity", "coupon", "cusip_id"})
	if err != nil {
		t.Fatalf("resolveReferenceColumns 失败: %v", err)
	}
	if cols.maturity != 0 || cols.securityID != 2 {
		t.Fatalf("列下标错误: %+v", cols)
	}

	if _, err := resolveReferenceColumns([]string{"cusip_id"}); err == nil {
		t.Fatalf("缺少 maturity 列应报错")
	}
}

func TestParseDailyRecord(t *testing.T) {
	cols := dailyColumns{securityID: 0, tradeDate: 1, spread: 2, cleanPrice: 3}

	obs, err := parseDailyRecord(cols, []string{"037833AK6", "2019-07-15", "0.0123", "101.25"}, 6)
	if err != nil {
		t.Fatalf("parseDailyRecord 失败: %v", err)
	}
	if obs.SecurityID != "037833AK6" {
		t.Fatalf("SecurityID=%s", obs.SecurityID)
	}
	if obs.IssuerID != "037833" {
		t.Fatalf("IssuerID=%s, want 037833", obs.IssuerID)
	}
	want := time.Date(2019, 7, 15, 0, 0, 0, 0, time.UTC)
	if !obs.TradeDate.Equal(want) {
		t.Fatalf("TradeDate=%v, want %v", obs.TradeDate, want)
	}
	if obs.CreditSpread != 0.0123 || obs.CleanPrice != 101.25 {
		t.Fatalf("数值字段=(%v,%v)", obs.CreditSpread, obs.CleanPrice)
	}
	// 到期日由 join 阶段补充
	if !obs.MaturityDate.IsZero() {
		t.Fatalf("解析阶段不应填充到期日")
	}

	cases := [][]string{
		{"", "2019-07-15", "0.01", "100"},        // 证券代码为空
		{"037833AK6", "not-a-date", "0.01", "100"}, // 日期非法
		{"037833AK6", "2019-07-15", "", "100"},   // 利差为空
		{"037833AK6", "2019-07-15", "abc", "100"}, // 利差非法
		{"037833AK6", "2019-07-15", "0.01", ""},  // 净价为空
	}
	for i, record := range cases {
		if _, err := parseDailyRecord(cols, record, 6); err == nil {
			t.Fatalf("用例 %d 应解析失败: %v", i, record)
		}
	}
}

func TestParseDailyRecord_CompactDate(t *testing.T) {
	cols := dailyColumns{securityID: 0, tradeDate: 1, spread: 2, cleanPrice: 3}
	obs, err := parseDailyRecord(cols, []string{"037833AK6", "20190715", "0.01", "100"}, 6)
	if err != nil {
		t.Fatalf("紧凑日期格式应支持: %v", err)
	}
	want := time.Date(2019, 7, 15, 0, 0, 0, 0, time.UTC)
	if !obs.TradeDate.Equal(want) {
		t.Fatalf("TradeDate=%v, want %v", obs.TradeDate, want)
	}
}

func TestParseReferenceRecord(t *testing.T) {
	cols := referenceColumns{securityID: 0, maturity: 1}

	securityID, maturity, err := parseReferenceRecord(cols, []string{"037833AK6", "2029-05-01"})
	if err != nil {
		t.Fatalf("parseReferenceRecord 失败: %v", err)
	}
	if securityID != "037833AK6" {
		t.Fatalf("securityID=%s", securityID)
	}
	want := time.Date(2029, 5, 1, 0, 0, 0, 0, time.UTC)
	if !maturity.Equal(want) {
		t.Fatalf("maturity=%v, want %v", maturity, want)
	}

	if _, _, err := parseReferenceRecord(cols, []string{"", "2029-05-01"}); err == nil {
		t.Fatalf("证券代码为空应报错")
	}
	if _, _, err := parseReferenceRecord(cols, []string{"037833AK6", "n/a"}); err == nil {
		t.Fatalf("到期日非法应报错")
	}
}

func TestIssuerPrefix(t *testing.T) {
	if got := issuerPrefix("037833AK6", 6); got != "037833" {
		t.Fatalf("issuerPrefix=%s, want 037833", got)
	}
	// 代码短于前缀长度时取整个代码
	if got := issuerPrefix("0378", 6); got != "0378" {
		t.Fatalf("issuerPrefix=%s, want 0378", got)
	}
	if got := issuerPrefix("037833", 6); got != "037833" {
		t.Fatalf("issuerPrefix=%s, want 037833", got)
	}
}
