// Package timeutil 提供交易日期相关的工具函数。
// 本回测管线的时间轴是交易日期（无时间分量），所有日期统一
// 归一化为 UTC 零点，保证可以安全地做相等比较和 map key。
package timeutil

import (
	"fmt"
	"time"
)

// dateLayouts 支持的日期格式
// 债券日度数据常见三种写法：ISO、紧凑、美式斜杠。
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"01/02/2006",
}

// Normalize 将时间归一化为 UTC 零点（去掉时间分量）
// 参数 t: 任意时间
// 返回: 同一天的 UTC 零点时间
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析日期字符串并归一化
// 依次尝试 dateLayouts 中的格式，全部失败则返回错误。
// 参数 s: 日期字符串，如 "2019-07-15"
// 返回: 归一化后的日期和可能的错误
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %q", s)
}

// AddDays 在日期上加 n 个自然日
// 参数 t: 基准日期（应已归一化）
// 参数 n: 天数，可为负
// 返回: 归一化后的结果日期
func AddDays(t time.Time, n int) time.Time {
	return Normalize(t.AddDate(0, 0, n))
}

// DaysBetween 计算两个日期之间的自然日差（b - a）
// 参数 a: 起始日期
// 参数 b: 结束日期
// 返回: 天数差（有符号）
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// AbsDays 计算两个日期之间的自然日差的绝对值
// 用于交易日期接近度过滤。
// 参数 a: 日期一
// 参数 b: 日期二
// 返回: 天数差（非负）
func AbsDays(a, b time.Time) int {
	d := DaysBetween(a, b)
	if d < 0 {
		return -d
	}
	return d
}

// DayKey 将日期转换为可比较的整数 key
// 用于以 (security, maturity, date) 为 key 的索引结构。
// 参数 t: 日期（应已归一化）
// 返回: Unix 秒时间戳
func DayKey(t time.Time) int64 {
	return Normalize(t).Unix()
}

// FormatDate 将日期格式化为 ISO 字符串
// 参数 t: 日期
// 返回: "2006-01-02" 格式的字符串
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
