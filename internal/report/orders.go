package report

import (
	"sort"

	"github.com/tidwall/gjson"
)

// 引擎订单字段使用数字枚举，这里维护封闭的已知码表；
// 未知编码按字面字符串透传，不做臆测。
var orderTypeNames = map[int64]string{
	0:  "Market",
	1:  "Limit",
	2:  "StopMarket",
	3:  "StopLimit",
	4:  "MarketOnOpen",
	5:  "MarketOnClose",
	6:  "OptionExercise",
	7:  "LimitIfTouched",
	8:  "ComboMarket",
	9:  "ComboLimit",
	10: "ComboLegLimit",
	11: "TrailingStop",
	12: "TrailingStopLimit",
	13: "MarketIfTouched",
	14: "PeggedToMarket",
}

// 4/5/6 在引擎侧均表示取消，折叠为同一标签。
var orderStatusNames = map[int64]string{
	0: "New",
	1: "Submitted",
	2: "PartiallyFilled",
	3: "Filled",
	4: "Canceled",
	5: "Canceled",
	6: "Canceled",
	7: "Invalid",
	8: "None",
}

var orderDirectionNames = map[int64]string{
	0: "Buy",
	1: "Sell",
}

// extractOrders 归一化 report 的 orders 映射，按（日期，ID）升序输出，空日期排最前。
func extractOrders(rep gjson.Result) []Order {
	out := []Order{}
	rep.Get("orders").ForEach(func(_, o gjson.Result) bool {
		var price *float64
		if d, ok := decimalFromResult(o.Get("price")); ok {
			f := toFloat(d)
			price = &f
		}
		out = append(out, Order{
			ID:           o.Get("id").Int(),
			Symbol:       orderSymbol(o.Get("symbol")),
			Time:         FormatISODate(o.Get("time").String()),
			Type:         codeName(orderTypeNames, o.Get("type")),
			Direction:    codeName(orderDirectionNames, o.Get("direction")),
			Status:       codeName(orderStatusNames, o.Get("status")),
			Quantity:     floatOrZero(o.Get("quantity")),
			Price:        price,
			LastFillTime: FormatISODate(o.Get("lastFillTime").String()),
			Tag:          o.Get("tag").String(),
		})
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func orderSymbol(sym gjson.Result) string {
	if !sym.Exists() {
		return ""
	}
	if sym.Type == gjson.String {
		return sym.Str
	}
	if sym.IsObject() {
		for _, field := range []string{"value", "ticker", "permtick", "id"} {
			if v := sym.Get(field); v.Exists() {
				return v.String()
			}
		}
	}
	return ""
}

func codeName(table map[int64]string, r gjson.Result) string {
	if r.Type == gjson.Number {
		if name, ok := table[r.Int()]; ok {
			return name
		}
	}
	return r.String()
}
