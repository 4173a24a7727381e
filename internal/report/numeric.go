// Package report 将 Lean 引擎松散的 summary/report JSON 归一化为稳定的分析结构。
// 引擎输出视为不可信数据：任何字段都可能缺失、类型错误或无法解析，
// 解析失败一律降级为“字段缺失”，绝不向上抛错。
package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const dateLayout = "2006-01-02"

// currencyCleaner 去掉货币符号与千分位分隔符。
var currencyCleaner = strings.NewReplacer("$", "", "€", "", "£", "", ",", "")

// ParseDecimal 将任意取值解析为精确小数。
// 字符串先做裁剪与货币符号清理，末尾 % 被剥掉（百分比换算由调用方负责）。
// 解析失败返回 (zero, false)，从不返回错误。
func ParseDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		return parseDecimalString(t.String())
	case string:
		return parseDecimalString(t)
	default:
		return decimal.Decimal{}, false
	}
}

func parseDecimalString(s string) (decimal.Decimal, bool) {
	cleaned := currencyCleaner.Replace(strings.TrimSpace(s))
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// PercentToRatio 把百分数换算成比例（12.5 -> 0.125），不做范围截断。
func PercentToRatio(d decimal.Decimal) decimal.Decimal {
	return d.Div(decimal.NewFromInt(100))
}

// decimalFromResult 从 gjson 节点取精确小数。
// JSON 数字优先按原文解析，避免 float64 往返损失。
func decimalFromResult(r gjson.Result) (decimal.Decimal, bool) {
	if !r.Exists() {
		return decimal.Decimal{}, false
	}
	switch r.Type {
	case gjson.Number:
		if d, err := decimal.NewFromString(strings.TrimSpace(r.Raw)); err == nil {
			return d, true
		}
		return decimal.NewFromFloat(r.Num), true
	case gjson.String:
		return parseDecimalString(r.Str)
	default:
		return decimal.Decimal{}, false
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// FormatEpochDate 把纪元秒格式化为 YYYY-MM-DD（UTC）。
// 无法整数化的输入原样返回其字符串形式。
func FormatEpochDate(v any) string {
	switch t := v.(type) {
	case float64:
		return epochDate(int64(t))
	case float32:
		return epochDate(int64(t))
	case int:
		return epochDate(int64(t))
	case int64:
		return epochDate(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return epochDate(i)
		}
		if f, err := t.Float64(); err == nil {
			return epochDate(int64(f))
		}
		return t.String()
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return epochDate(i)
		}
		return t
	default:
		return strings.TrimSpace(strValue(v))
	}
}

func epochDate(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(dateLayout)
}

func epochDateFromResult(r gjson.Result) string {
	if r.Type == gjson.Number {
		return epochDate(int64(r.Num))
	}
	return FormatEpochDate(r.String())
}

// FormatISODate 把 ISO-8601 时间戳（Z 或带时区偏移）格式化为 YYYY-MM-DD。
// 解析失败时原样返回输入。
func FormatISODate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}

func strValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}
