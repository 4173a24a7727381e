package report

import (
	"github.com/tidwall/gjson"
)

// Input 汇集归一化所需的原始材料。Report 允许为空（引擎只产出 summary 时）。
type Input struct {
	JobID      string
	Symbol     string
	Timeframe  string
	Parameters map[string]any
	StartDate  string
	EndDate    string

	Summary         []byte
	Report          []byte
	DurationSeconds float64
	Artifacts       Artifacts
}

// Normalize 把引擎的 summary/report JSON 转换为稳定的分析结构。
// 所有字段访问均为 get-or-absent：缺失、类型错误的字段静默省略，不会失败。
func Normalize(in Input) Result {
	summary := gjson.ParseBytes(in.Summary)
	rep := gjson.ParseBytes(in.Report)

	res := Result{
		JobID:           in.JobID,
		Status:          "completed",
		Symbol:          in.Symbol,
		Timeframe:       in.Timeframe,
		Parameters:      in.Parameters,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		DurationSeconds: in.DurationSeconds,
		Metrics:         extractMetrics(summary),
		EquityCurve:     extractEquityCurve(rep),
		PriceSeries:     extractPriceSeries(rep, in.Symbol),
		Indicators:      extractIndicators(rep, in.Symbol),
		Trades:          extractTrades(summary, in.Symbol),
		Orders:          extractOrders(rep),
		Artifacts:       in.Artifacts,
	}
	if res.Parameters == nil {
		res.Parameters = map[string]any{}
	}

	if d, ok := decimalFromResult(summary.Get("totalPerformance.portfolioStatistics.startEquity")); ok {
		f := toFloat(d)
		res.StartEquity = &f
	}
	if d, ok := decimalFromResult(summary.Get("totalPerformance.tradeStatistics.totalProfitLoss")); ok {
		f := toFloat(d)
		res.NetProfit = &f
	}
	if d, ok := decimalFromResult(summary.Get("statistics.Net Profit")); ok {
		f := toFloat(PercentToRatio(d))
		res.NetProfitPercent = &f
	}
	return res
}

// extractMetrics 汇总交易统计。无法解析的字段直接省略，不做 null 填充。
func extractMetrics(summary gjson.Result) map[string]float64 {
	metrics := make(map[string]float64)
	stats := summary.Get("statistics")
	tradeStats := summary.Get("totalPerformance.tradeStatistics")

	put := func(key string, r gjson.Result, percent bool) {
		d, ok := decimalFromResult(r)
		if !ok {
			return
		}
		if percent {
			d = PercentToRatio(d)
		}
		metrics[key] = toFloat(d)
	}

	put("totalTrades", tradeStats.Get("totalNumberOfTrades"), false)
	put("winningTrades", tradeStats.Get("numberOfWinningTrades"), false)
	put("losingTrades", tradeStats.Get("numberOfLosingTrades"), false)
	put("winRate", stats.Get("Win Rate"), true)
	put("drawdown", stats.Get("Drawdown"), true)
	put("sharpe", stats.Get("Sharpe Ratio"), false)
	put("sortino", stats.Get("Sortino Ratio"), false)
	return metrics
}

// extractEquityCurve 读取 Strategy Equity/Equity 序列。
// 每个点是 [timestamp, ..., value] 元组，取末位为数值；解析失败的点丢弃。
func extractEquityCurve(rep gjson.Result) []TimeValue {
	return tupleTimeValues(rep.Get("charts.Strategy Equity.series.Equity.values"))
}

// tupleTimeValues 把 [timestamp, ..., value] 元组列表转成 {date, value} 序列，
// 数值取末位，解析失败的点丢弃，顺序保持原样。
func tupleTimeValues(values gjson.Result) []TimeValue {
	out := []TimeValue{}
	values.ForEach(func(_, point gjson.Result) bool {
		arr := point.Array()
		if len(arr) < 2 {
			return true
		}
		d, ok := decimalFromResult(arr[len(arr)-1])
		if !ok {
			return true
		}
		out = append(out, TimeValue{
			Time:  epochDateFromResult(arr[0]),
			Value: toFloat(d),
		})
		return true
	})
	return out
}

// extractPriceSeries 定位标的价格图：先按原名，再按大写，最后回退 Benchmark。
// 取第一条非空序列；少于 5 元的元组用收盘价补齐 OHL（收盘价序列会得到平坦柱）。
func extractPriceSeries(rep gjson.Result, symbol string) []Candle {
	chart := lookupSymbolChart(rep, symbol)
	if !chart.Exists() {
		return []Candle{}
	}
	var values gjson.Result
	chart.Get("series").ForEach(func(_, series gjson.Result) bool {
		v := series.Get("values")
		if v.IsArray() && len(v.Array()) > 0 {
			values = v
			return false
		}
		return true
	})

	out := []Candle{}
	values.ForEach(func(_, point gjson.Result) bool {
		arr := point.Array()
		if len(arr) < 2 {
			return true
		}
		closeDec, ok := decimalFromResult(arr[len(arr)-1])
		if !ok {
			// 收盘价不可解析时整点丢弃，开高低不再检查。
			return true
		}
		closeVal := toFloat(closeDec)
		candle := Candle{
			Time:  epochDateFromResult(arr[0]),
			Open:  closeVal,
			High:  closeVal,
			Low:   closeVal,
			Close: closeVal,
		}
		if len(arr) >= 5 {
			candle.Open = floatOr(arr[1], closeVal)
			candle.High = floatOr(arr[2], closeVal)
			candle.Low = floatOr(arr[3], closeVal)
			candle.Close = floatOr(arr[4], closeVal)
		}
		out = append(out, candle)
		return true
	})
	return out
}

func lookupSymbolChart(rep gjson.Result, symbol string) gjson.Result {
	charts := rep.Get("charts")
	if !charts.Exists() {
		return gjson.Result{}
	}
	for _, name := range symbolChartNames(symbol) {
		if chart := charts.Get(escapePathKey(name)); chart.Exists() {
			return chart
		}
	}
	return gjson.Result{}
}

func floatOr(r gjson.Result, fallback float64) float64 {
	if d, ok := decimalFromResult(r); ok {
		return toFloat(d)
	}
	return fallback
}
