package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCodeName(t *testing.T) {
	assert.Equal(t, "Limit", codeName(orderTypeNames, gjson.Parse(`1`)))
	assert.Equal(t, "Filled", codeName(orderStatusNames, gjson.Parse(`3`)))
	assert.Equal(t, "Buy", codeName(orderDirectionNames, gjson.Parse(`0`)))
	// 未知数字编码与非数字值均按字面透传
	assert.Equal(t, "99", codeName(orderTypeNames, gjson.Parse(`99`)))
	assert.Equal(t, "Custom", codeName(orderTypeNames, gjson.Parse(`"Custom"`)))
}

func TestOrderStatusCancelCollapse(t *testing.T) {
	for _, code := range []string{"4", "5", "6"} {
		assert.Equal(t, "Canceled", codeName(orderStatusNames, gjson.Parse(code)))
	}
}

func TestExtractOrdersSortedByTimeThenID(t *testing.T) {
	rep := gjson.Parse(`{"orders":{
		"3": {"id": 3, "time": "2020-01-02T00:00:00Z", "type": 0, "direction": 1, "status": 3, "quantity": -1},
		"2": {"id": 2, "time": "2020-01-01T10:00:00Z", "type": 1, "direction": 0, "status": 3, "quantity": 1, "price": "100.5"},
		"1": {"id": 1, "type": 0, "direction": 0, "status": 5, "quantity": 1}
	}}`)
	orders := extractOrders(rep)
	require.Len(t, orders, 3)

	// 无时间的订单排最前，其余按日期与 ID 升序
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, "Canceled", orders[0].Status)
	assert.Nil(t, orders[0].Price)

	assert.Equal(t, int64(2), orders[1].ID)
	assert.Equal(t, "2020-01-01", orders[1].Time)
	require.NotNil(t, orders[1].Price)
	assert.Equal(t, 100.5, *orders[1].Price)

	assert.Equal(t, int64(3), orders[2].ID)
	assert.Equal(t, "Sell", orders[2].Direction)
	assert.Equal(t, -1.0, orders[2].Quantity)
}

func TestExtractOrdersSameDateOrderedByID(t *testing.T) {
	rep := gjson.Parse(`{"orders":{
		"9": {"id": 9, "time": "2020-01-01T15:00:00Z", "type": 0, "direction": 0, "status": 3},
		"4": {"id": 4, "time": "2020-01-01T09:00:00Z", "type": 0, "direction": 0, "status": 3}
	}}`)
	orders := extractOrders(rep)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(4), orders[0].ID)
	assert.Equal(t, int64(9), orders[1].ID)
}

func TestOrderSymbolRepresentations(t *testing.T) {
	assert.Equal(t, "SPY", orderSymbol(gjson.Parse(`"SPY"`)))
	assert.Equal(t, "SPY", orderSymbol(gjson.Parse(`{"value": "SPY", "id": "SPY R735QTJ8XC9X"}`)))
	assert.Equal(t, "SPY R735QTJ8XC9X", orderSymbol(gjson.Parse(`{"permtick": "SPY R735QTJ8XC9X"}`)))
	assert.Equal(t, "", orderSymbol(gjson.Parse(`{"market": "usa"}`)))
	assert.Equal(t, "", orderSymbol(gjson.Result{}))
}
