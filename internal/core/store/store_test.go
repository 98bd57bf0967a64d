// Package store 观测表索引测试
package store

import (
	"reflect"
	"testing"
	"time"

	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/timeutil"
)

func day(n int) time.Time {
	return timeutil.Normalize(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

func obs(securityID, issuerID string, maturity, trade time.Time, cs, price float64) model.BondObservation {
	return model.BondObservation{
		SecurityID:   securityID,
		IssuerID:     issuerID,
		TradeDate:    trade,
		MaturityDate: maturity,
		CreditSpread: cs,
		CleanPrice:   price,
	}
}

func TestStore_PriceAt(t *testing.T) {
	m1 := day(365 * 5)
	st := New([]model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.02, 101.5),
		obs("AAA00001", "AAA000", m1, day(2), 0.02, 102.0),
		// 同一 (security, maturity, date) 的重复行：数据完整性问题
		obs("AAA00001", "AAA000", m1, day(3), 0.02, 99.0),
		obs("AAA00001", "AAA000", m1, day(3), 0.03, 98.0),
	})

	px, n := st.PriceAt("AAA00001", m1, day(1))
	if n != 1 || px != 101.5 {
		t.Fatalf("PriceAt(day1)=(%v,%d), want (101.5,1)", px, n)
	}

	// 无观测
	if _, n := st.PriceAt("AAA00001", m1, day(9)); n != 0 {
		t.Fatalf("PriceAt(day9) n=%d, want 0", n)
	}
	// 到期日不匹配也视为无观测
	if _, n := st.PriceAt("AAA00001", day(100), day(1)); n != 0 {
		t.Fatalf("PriceAt(到期不匹配) n=%d, want 0", n)
	}

	// 重复行：返回首个价格与行数
	px, n = st.PriceAt("AAA00001", m1, day(3))
	if n != 2 || px != 99.0 {
		t.Fatalf("PriceAt(day3)=(%v,%d), want (99.0,2)", px, n)
	}
}

func TestStore_IsRecent(t *testing.T) {
	m1 := day(365 * 5)
	var rows []model.BondObservation
	// 30 个观测日 day(1)..day(30)
	for i := 1; i <= 30; i++ {
		rows = append(rows, obs("AAA00001", "AAA000", m1, day(i), 0.02, 100))
	}
	st := New(rows)

	// 最新观测落在最近 20 条内
	if !st.IsRecent("AAA00001", day(30), 20) {
		t.Fatalf("day30 应在最近 20 条内")
	}
	// 第 20 新的观测是 day(11)：恰好在窗口内
	if !st.IsRecent("AAA00001", day(11), 20) {
		t.Fatalf("day11 应恰好落在最近 20 条内")
	}
	// day(10) 是第 21 新：在窗口外
	if st.IsRecent("AAA00001", day(10), 20) {
		t.Fatalf("day10 不应在最近 20 条内")
	}
	// lookback=0 永远不新鲜
	if st.IsRecent("AAA00001", day(30), 0) {
		t.Fatalf("lookback=0 时任何日期都不应判定为新鲜")
	}
	// 未知证券
	if st.IsRecent("ZZZ00001", day(30), 20) {
		t.Fatalf("未知证券不应判定为新鲜")
	}
}

func TestStore_IsRecent_DuplicateDates(t *testing.T) {
	m1 := day(365 * 5)
	var rows []model.BondObservation
	// day(1)..day(10) 各一条，day(20) 重复 25 条
	// “最近 N 条”按观测行计：25 条重复打印占满整个 20 行窗口
	for i := 1; i <= 10; i++ {
		rows = append(rows, obs("AAA00001", "AAA000", m1, day(i), 0.02, 100))
	}
	for i := 0; i < 25; i++ {
		rows = append(rows, obs("AAA00001", "AAA000", m1, day(20), 0.02, float64(100+i)))
	}
	st := New(rows)

	if !st.IsRecent("AAA00001", day(20), 20) {
		t.Fatalf("day20 应在最近 20 条内")
	}
	if st.IsRecent("AAA00001", day(10), 20) {
		t.Fatalf("day10 被重复打印挤出窗口，不应判定为新鲜")
	}
}

func TestStore_IssuersAndCohort(t *testing.T) {
	m1 := day(365 * 5)
	st := New([]model.BondObservation{
		obs("CCC00001", "CCC000", m1, day(1), 0.02, 100),
		obs("AAA00001", "AAA000", m1, day(1), 0.02, 100),
		obs("BBB00001", "BBB000", m1, day(1), 0.02, 100),
		obs("AAA00002", "AAA000", m1, day(2), 0.03, 101),
	})

	// 发行人按字典序
	want := []string{"AAA000", "BBB000", "CCC000"}
	if !reflect.DeepEqual(st.Issuers(), want) {
		t.Fatalf("Issuers()=%v, want %v", st.Issuers(), want)
	}

	cohort := st.Cohort("AAA000")
	if len(cohort) != 2 {
		t.Fatalf("Cohort(AAA000) 大小=%d, want 2", len(cohort))
	}
	// 组内保持输入顺序
	if cohort[0].SecurityID != "AAA00001" || cohort[1].SecurityID != "AAA00002" {
		t.Fatalf("Cohort 顺序错误: %v", cohort)
	}
	if st.Cohort("ZZZ000") != nil {
		t.Fatalf("未知发行人应返回 nil")
	}

	if st.Size() != 4 {
		t.Fatalf("Size()=%d, want 4", st.Size())
	}
}

func TestStore_CopiesInput(t *testing.T) {
	m1 := day(365 * 5)
	input := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.02, 100),
	}
	st := New(input)

	// 修改输入切片不应影响已构建的索引
	input[0].CleanPrice = 999

	px, n := st.PriceAt("AAA00001", m1, day(1))
	if n != 1 || px != 100 {
		t.Fatalf("PriceAt=(%v,%d), want (100,1)", px, n)
	}
}
