package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestExtractTradesDirectionAndFields(t *testing.T) {
	summary := gjson.Parse(`{"totalPerformance":{"closedTrades":[
		{"direction": 0, "entryTime": "2020-01-01T00:00:00Z", "exitTime": "2020-01-02T00:00:00Z",
		 "entryPrice": "100.5", "exitPrice": 101, "quantity": 2, "profitLoss": "1.0"},
		{"direction": 1, "entryPrice": "oops"}
	]}}`)
	trades := extractTrades(summary, "")
	require.Len(t, trades, 2)

	assert.Equal(t, 1, trades[0].ID)
	assert.Equal(t, "Long", trades[0].Direction)
	assert.Equal(t, "2020-01-01", trades[0].EntryTime)
	assert.Equal(t, "2020-01-02", trades[0].ExitTime)
	assert.Equal(t, 100.5, trades[0].EntryPrice)
	assert.Equal(t, 1.0, trades[0].Profit)

	assert.Equal(t, 2, trades[1].ID)
	assert.Equal(t, "Short", trades[1].Direction)
	assert.Equal(t, 0.0, trades[1].EntryPrice)
}

func TestExtractTradesDirectionRequiresExplicitCode(t *testing.T) {
	summary := gjson.Parse(`{"totalPerformance":{"closedTrades":[
		{"entryPrice": 100},
		{"direction": "0", "entryPrice": 100},
		{"direction": 0, "entryPrice": 100}
	]}}`)
	trades := extractTrades(summary, "")
	require.Len(t, trades, 3)
	assert.Equal(t, "Short", trades[0].Direction, "缺失 direction 不默认多头")
	assert.Equal(t, "Short", trades[1].Direction, "字符串编码不视为 0")
	assert.Equal(t, "Long", trades[2].Direction)
}

func TestExtractTradesTopLevelFallback(t *testing.T) {
	summary := gjson.Parse(`{"closedTrades":[{"direction": 0}]}`)
	trades := extractTrades(summary, "")
	require.Len(t, trades, 1)
}

func TestExtractTradesSymbolFilterKeepsIDSequence(t *testing.T) {
	// 序号按来源顺序分配，过滤掉的交易仍占号
	summary := gjson.Parse(`{"totalPerformance":{"closedTrades":[
		{"symbol": "QQQ", "direction": 0},
		{"symbol": {"value": "SPY R735QTJ8XC9X"}, "direction": 0},
		{"symbolId": "SPY", "direction": 1}
	]}}`)
	trades := extractTrades(summary, "spy")
	require.Len(t, trades, 2)
	assert.Equal(t, 2, trades[0].ID)
	assert.Equal(t, 3, trades[1].ID)
}

func TestTradeMatchesSymbol(t *testing.T) {
	cases := []struct {
		name  string
		trade string
		want  bool
	}{
		{"string match", `{"symbol": "SPY"}`, true},
		{"string mismatch", `{"symbol": "QQQ"}`, false},
		{"object value", `{"symbol": {"value": "SPY"}}`, true},
		{"object ticker", `{"symbol": {"ticker": "spy"}}`, true},
		{"object permtick", `{"symbol": {"permtick": "SPY R735QTJ8XC9X"}}`, true},
		{"object id", `{"symbol": {"id": "SPY R735QTJ8XC9X"}}`, true},
		{"top-level symbolId", `{"symbolId": "SPY"}`, true},
		{"no symbol info keeps trade", `{"direction": 0}`, true},
		{"object without known fields keeps trade", `{"symbol": {"market": "usa"}}`, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, tradeMatchesSymbol(gjson.Parse(c.trade), "SPY"))
		})
	}
}
