// Package threshold 阈值标定测试
package threshold

import (
	"errors"
	"math"
	"testing"
	"time"

	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/timeutil"
)

func day(n int) time.Time {
	return timeutil.Normalize(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

func obs(securityID, issuerID string, maturity, trade time.Time, cs float64) model.BondObservation {
	return model.BondObservation{
		SecurityID:   securityID,
		IssuerID:     issuerID,
		TradeDate:    trade,
		MaturityDate: maturity,
		CreditSpread: cs,
		CleanPrice:   100,
	}
}

func TestCalibrate_KnownFixture(t *testing.T) {
	m1 := day(365 * 3)
	m2 := day(365 * 5)
	m3 := day(365 * 10)

	// 同一到期档的重复观测（0.010 → 0.012）不产生差分；
	// 两处到期跃迁产生差分 0.008 和 0.030
	observations := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.010),
		obs("AAA00001", "AAA000", m1, day(2), 0.012),
		obs("AAA00002", "AAA000", m2, day(1), 0.020),
		obs("AAA00003", "AAA000", m3, day(1), 0.050),
		// 单一到期档的发行人不产生差分
		obs("BBB00001", "BBB000", m1, day(1), 0.030),
		obs("BBB00001", "BBB000", m1, day(2), 0.031),
	}

	res, err := Calibrate(observations, 1.0)
	if err != nil {
		t.Fatalf("Calibrate 失败: %v", err)
	}

	if res.Samples != 2 {
		t.Fatalf("Samples=%d, want 2", res.Samples)
	}

	wantMean := (0.008 + 0.030) / 2
	if math.Abs(res.Mean-wantMean) > 1e-12 {
		t.Fatalf("Mean=%v, want %v", res.Mean, wantMean)
	}

	// 样本标准差（ddof=1）
	d1 := 0.008 - wantMean
	d2 := 0.030 - wantMean
	wantStd := math.Sqrt(d1*d1 + d2*d2)
	if math.Abs(res.Std-wantStd) > 1e-12 {
		t.Fatalf("Std=%v, want %v", res.Std, wantStd)
	}

	wantThreshold := wantMean - 1.0*wantStd
	if math.Abs(res.Threshold-wantThreshold) > 1e-12 {
		t.Fatalf("Threshold=%v, want %v", res.Threshold, wantThreshold)
	}
}

func TestCalibrate_SameMaturityContributesNothing(t *testing.T) {
	m1 := day(365 * 3)

	// 全部观测在同一到期档：无到期跃迁，无差分
	observations := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.010),
		obs("AAA00001", "AAA000", m1, day(2), 0.020),
		obs("AAA00001", "AAA000", m1, day(3), 0.090),
		obs("AAA00002", "AAA000", m1, day(1), 0.001),
	}

	_, err := Calibrate(observations, 2.0)
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("err=%v, want ErrInsufficientData", err)
	}
}

func TestCalibrate_NoCrossIssuerDelta(t *testing.T) {
	m1 := day(365 * 3)
	m2 := day(365 * 5)

	// 两个发行人各只有一个到期档；跨发行人的相邻行不产生差分
	observations := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.010),
		obs("BBB00001", "BBB000", m2, day(1), 0.080),
	}

	_, err := Calibrate(observations, 2.0)
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("err=%v, want ErrInsufficientData", err)
	}
}

func TestCalibrate_InsufficientData(t *testing.T) {
	m1 := day(365 * 3)
	m2 := day(365 * 5)

	// 空输入
	if _, err := Calibrate(nil, 2.0); !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("空输入 err=%v, want ErrInsufficientData", err)
	}

	// 仅 1 条差分：样本标准差无定义
	observations := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.010),
		obs("AAA00002", "AAA000", m2, day(1), 0.020),
	}
	if _, err := Calibrate(observations, 2.0); !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("单差分 err=%v, want ErrInsufficientData", err)
	}
}

func TestCalibrate_SkipsIncompleteRows(t *testing.T) {
	m1 := day(365 * 3)
	m2 := day(365 * 5)
	m3 := day(365 * 10)

	observations := []model.BondObservation{
		obs("AAA00001", "AAA000", m1, day(1), 0.010),
		{SecurityID: "", IssuerID: "AAA000", MaturityDate: m2, TradeDate: day(1), CreditSpread: 0.5},
		{SecurityID: "AAA00009", IssuerID: "AAA000", TradeDate: day(1), CreditSpread: 0.5},
		obs("AAA00002", "AAA000", m2, day(1), 0.020),
		obs("AAA00003", "AAA000", m3, day(1), 0.030),
	}

	res, err := Calibrate(observations, 1.0)
	if err != nil {
		t.Fatalf("Calibrate 失败: %v", err)
	}
	if res.Samples != 2 {
		t.Fatalf("Samples=%d, want 2（缺失行应被剔除）", res.Samples)
	}
	if math.Abs(res.Mean-0.01) > 1e-12 {
		t.Fatalf("Mean=%v, want 0.01", res.Mean)
	}
}
