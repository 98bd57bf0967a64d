// Package store 维护准备好的观测表的只读索引视图。
// 扫描器与模拟器共享同一个 Store；构建完成后不再写入，
// 因此跨组件读取无需加锁。
package store

import (
	"sort"
	"time"

	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/timeutil"
)

// priceKey (security, maturity, trade_date) 三元组索引键
// 日期以 Unix 秒表示，保证可比较（所有日期已归一化为 UTC 零点）。
type priceKey struct {
	securityID string
	maturity   int64
	tradeDate  int64
}

// Store 观测表索引（构建后只读）
// 提供三类查询：发行人分组、精确价格查找、新鲜度判定。
type Store struct {
	// observations 全部观测行（构建时拷贝，外部不可变更）
	observations []model.BondObservation

	// byIssuer 按发行人分组的观测（保持输入顺序）
	byIssuer map[string][]model.BondObservation
	// issuers 排序后的发行人列表，保证分组遍历顺序确定
	issuers []string

	// prices 按 (security, maturity, trade_date) 索引的净价
	// 一个键可能对应多行（数据完整性问题），由调用方决定处理策略
	prices map[priceKey][]float64

	// datesDesc 按证券索引的全部观测日期（降序，含重复）
	// 用于新鲜度判定：短腿开仓日是否落在最近 N 条观测内
	datesDesc map[string][]int64
}

// New 从观测表构建索引
// 参数 observations: 准备好的观测表（清洗、去重后）
func New(observations []model.BondObservation) *Store {
	s := &Store{
		observations: make([]model.BondObservation, len(observations)),
		byIssuer:     make(map[string][]model.BondObservation),
		prices:       make(map[priceKey][]float64),
		datesDesc:    make(map[string][]int64),
	}
	copy(s.observations, observations)

	for _, obs := range s.observations {
		s.byIssuer[obs.IssuerID] = append(s.byIssuer[obs.IssuerID], obs)

		key := priceKey{
			securityID: obs.SecurityID,
			maturity:   timeutil.DayKey(obs.MaturityDate),
			tradeDate:  timeutil.DayKey(obs.TradeDate),
		}
		s.prices[key] = append(s.prices[key], obs.CleanPrice)

		s.datesDesc[obs.SecurityID] = append(s.datesDesc[obs.SecurityID], timeutil.DayKey(obs.TradeDate))
	}

	for issuerID := range s.byIssuer {
		s.issuers = append(s.issuers, issuerID)
	}
	sort.Strings(s.issuers)

	// 日期降序；重复日期保留重复条目（按观测行计数，而非去重日期）
	for _, dates := range s.datesDesc {
		sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
	}

	return s
}

// Size 返回观测行数
func (s *Store) Size() int {
	return len(s.observations)
}

// Observations 返回全部观测行
// 返回的切片应视为只读。
func (s *Store) Observations() []model.BondObservation {
	return s.observations
}

// Issuers 返回排序后的发行人列表
// 扫描器按此顺序遍历发行人组，保证输出顺序确定。
func (s *Store) Issuers() []string {
	return s.issuers
}

// Cohort 返回指定发行人的全部观测
// 返回的切片应视为只读；不存在时返回 nil。
func (s *Store) Cohort(issuerID string) []model.BondObservation {
	return s.byIssuer[issuerID]
}

// PriceAt 精确查找净价
// 按 (security, maturity, trade_date) 查找；返回首个匹配价格
// 与匹配行数。行数为 0 或 >1 时由调用方决定是否视为
// 数据完整性错误。
func (s *Store) PriceAt(securityID string, maturity, tradeDate time.Time) (float64, int) {
	key := priceKey{
		securityID: securityID,
		maturity:   timeutil.DayKey(maturity),
		tradeDate:  timeutil.DayKey(tradeDate),
	}
	matches := s.prices[key]
	if len(matches) == 0 {
		return 0, 0
	}
	return matches[0], len(matches)
}

// IsRecent 判断日期是否落在证券最近 lookback 条观测内
// “最近 N 条”按观测行计（重复日期算多条），与全数据集口径一致，
// 用于排除建立在最新打印上的机会（新鲜度过滤，非性能优化）。
// 参数 securityID: 证券代码
// 参数 tradeDate: 待判定日期
// 参数 lookback: 窗口行数
func (s *Store) IsRecent(securityID string, tradeDate time.Time, lookback int) bool {
	if lookback <= 0 {
		return false
	}
	dates := s.datesDesc[securityID]
	if len(dates) > lookback {
		dates = dates[:lookback]
	}
	day := timeutil.DayKey(tradeDate)
	for _, d := range dates {
		if d == day {
			return true
		}
	}
	return false
}
