package report

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractTrades 提取已平仓交易，按来源顺序赋 1 基序号。
// 指定标的时做过滤：交易不带标的信息则保留，否则标的须包含目标符号。
func extractTrades(summary gjson.Result, symbol string) []Trade {
	closed := summary.Get("totalPerformance.closedTrades")
	if !closed.Exists() {
		closed = summary.Get("closedTrades")
	}
	target := strings.ToUpper(strings.TrimSpace(symbol))

	out := []Trade{}
	seq := 0
	closed.ForEach(func(_, t gjson.Result) bool {
		seq++
		if target != "" && !tradeMatchesSymbol(t, target) {
			return true
		}
		// 只有显式的数字编码 0 表示 Long；字段缺失不默认多头。
		direction := "Short"
		if dir := t.Get("direction"); dir.Type == gjson.Number && dir.Int() == 0 {
			direction = "Long"
		}
		out = append(out, Trade{
			ID:         seq,
			Direction:  direction,
			EntryTime:  FormatISODate(t.Get("entryTime").String()),
			ExitTime:   FormatISODate(t.Get("exitTime").String()),
			EntryPrice: floatOrZero(t.Get("entryPrice")),
			ExitPrice:  floatOrZero(t.Get("exitPrice")),
			Quantity:   floatOrZero(t.Get("quantity")),
			Profit:     floatOrZero(t.Get("profitLoss")),
		})
		return true
	})
	return out
}

// tradeMatchesSymbol 在多种标的表示里找目标符号：
// symbol 可能是字符串或 {value,ticker,permtick,id} 对象，另有顶层 symbolId。
func tradeMatchesSymbol(t gjson.Result, target string) bool {
	candidates := []string{}
	if sym := t.Get("symbol"); sym.Exists() {
		if sym.Type == gjson.String {
			candidates = append(candidates, sym.Str)
		} else if sym.IsObject() {
			for _, field := range []string{"value", "ticker", "permtick", "id"} {
				if v := sym.Get(field); v.Exists() {
					candidates = append(candidates, v.String())
				}
			}
		}
	}
	if v := t.Get("symbolId"); v.Exists() {
		candidates = append(candidates, v.String())
	}
	if len(candidates) == 0 {
		return true
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToUpper(c), target) {
			return true
		}
	}
	return false
}

func floatOrZero(r gjson.Result) float64 {
	if d, ok := decimalFromResult(r); ok {
		return toFloat(d)
	}
	return 0
}
