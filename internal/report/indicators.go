package report

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

const (
	equityChartName    = "Strategy Equity"
	benchmarkChartName = "Benchmark"
)

func symbolChartNames(symbol string) []string {
	names := []string{}
	if symbol != "" {
		names = append(names, symbol)
		if upper := strings.ToUpper(symbol); upper != symbol {
			names = append(names, upper)
		}
	}
	return append(names, benchmarkChartName)
}

// extractIndicators 把除价格图、权益图、基准图之外的所有序列都当作指标。
// 结果按展示名排序，键在单次结果内保证唯一。
func extractIndicators(rep gjson.Result, symbol string) []Indicator {
	charts := rep.Get("charts")
	if !charts.Exists() {
		return []Indicator{}
	}
	skip := map[string]bool{
		equityChartName:    true,
		benchmarkChartName: true,
	}
	if symbol != "" {
		skip[symbol] = true
		skip[strings.ToUpper(symbol)] = true
	}

	used := map[string]bool{}
	out := []Indicator{}
	charts.ForEach(func(name, chart gjson.Result) bool {
		chartName := name.String()
		if skip[chartName] {
			return true
		}
		chart.Get("series").ForEach(func(sname, series gjson.Result) bool {
			seriesName := sname.String()
			out = append(out, Indicator{
				Key:    uniqueKey(indicatorKey(chartName, seriesName), used),
				Chart:  chartName,
				Series: seriesName,
				Label:  indicatorLabel(chartName, seriesName),
				Data:   tupleTimeValues(series.Get("values")),
			})
			return true
		})
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// indicatorKey 由图表名+序列名派生驼峰键：
// 非字母数字折叠为空格，逐词首字母大写后拼接，整体首字母小写。
func indicatorKey(chart, series string) string {
	var cleaned strings.Builder
	for _, r := range chart + " " + series {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cleaned.WriteRune(r)
		} else {
			cleaned.WriteRune(' ')
		}
	}
	words := strings.Fields(cleaned.String())
	var b strings.Builder
	for _, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	key := b.String()
	if key == "" {
		return "series"
	}
	runes := []rune(key)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// uniqueKey 处理键冲突：追加递增数字后缀。
func uniqueKey(base string, used map[string]bool) string {
	key := base
	for i := 2; used[key]; i++ {
		key = base + strconv.Itoa(i)
	}
	used[key] = true
	return key
}

func indicatorLabel(chart, series string) string {
	if strings.EqualFold(chart, series) {
		return chart
	}
	return chart + " / " + series
}

// escapePathKey 转义 gjson 路径里的特殊字符，图表名可能含任意字符。
func escapePathKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
