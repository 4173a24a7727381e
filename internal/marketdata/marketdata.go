// Package marketdata 提供静态示例行情：固定的 SPY 日线数据集，用于前端演示。
package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrUnsupported 表示请求的标的/周期组合没有示例数据。
var ErrUnsupported = errors.New("sample data not available for the requested symbol/timeframe")

// Candle 对应示例数据集的单根日线。
type Candle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Dataset 描述一次行情应答。
type Dataset struct {
	Symbol    string   `json:"symbol"`
	Timeframe string   `json:"timeframe"`
	Candles   []Candle `json:"candles"`
}

// Provider 懒加载示例数据文件并缓存在内存里。
type Provider struct {
	path string

	once    sync.Once
	candles []Candle
	loadErr error
}

func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Query 只支持 SPY + 日线（1d/daily），其余组合返回 ErrUnsupported。
func (p *Provider) Query(symbol, timeframe string) (Dataset, error) {
	normalizedSymbol := strings.ToUpper(strings.TrimSpace(symbol))
	normalizedTimeframe := strings.ToLower(strings.TrimSpace(timeframe))
	if normalizedSymbol != "SPY" || (normalizedTimeframe != "1d" && normalizedTimeframe != "daily") {
		return Dataset{}, ErrUnsupported
	}
	candles, err := p.load()
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Symbol: normalizedSymbol, Timeframe: "1D", Candles: candles}, nil
}

func (p *Provider) load() ([]Candle, error) {
	p.once.Do(func() {
		raw, err := os.ReadFile(p.path)
		if err != nil {
			p.loadErr = fmt.Errorf("missing resource: %s: %w", p.path, err)
			return
		}
		if err := json.Unmarshal(raw, &p.candles); err != nil {
			p.loadErr = fmt.Errorf("sample data %s invalid: %w", p.path, err)
		}
	})
	return p.candles, p.loadErr
}
