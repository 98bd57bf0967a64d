// Package csvout 实现交易日志的表格导出。
// 列与 TradeRecord 的口径一一对应：两腿标识、开平仓日期、
// 四个净价、损益与持仓天数。
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"credit-spread-screener/internal/core/model"
	"credit-spread-screener/internal/util/fastparse"
	"credit-spread-screener/internal/util/timeutil"
)

// tradeHeader 交易日志 CSV 表头
var tradeHeader = []string{
	"security_id_short",
	"security_id_long",
	"open_date",
	"close_date",
	"short_price_open",
	"long_price_open",
	"short_price_close",
	"long_price_close",
	"profit",
	"holding_period",
}

// WriteTrades 将交易日志写为 CSV 文件
// 输出目录不存在时自动创建；已有文件会被覆盖。
// 参数 path: 输出文件路径
// 参数 records: 交易日志（按机会发现顺序）
func WriteTrades(path string, records []model.TradeRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 CSV 文件失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tradeHeader); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := []string{
			rec.SecurityIDShort,
			rec.SecurityIDLong,
			timeutil.FormatDate(rec.OpenDate),
			timeutil.FormatDate(rec.CloseDate),
			fastparse.FormatFloat(rec.ShortPriceOpen, -1),
			fastparse.FormatFloat(rec.LongPriceOpen, -1),
			fastparse.FormatFloat(rec.ShortPriceClose, -1),
			fastparse.FormatFloat(rec.LongPriceClose, -1),
			fastparse.FormatFloat(rec.Profit, -1),
			fastparse.FormatInt(int64(rec.HoldingPeriodDays)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("写入记录失败: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV 失败: %w", err)
	}
	return nil
}
