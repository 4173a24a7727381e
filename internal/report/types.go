package report

// TimeValue 是单个时间点取值（权益曲线、指标线）。
type TimeValue struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Candle 是归一化后的 OHLC 柱。
type Candle struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Indicator 对应图表里的一条指标序列。
type Indicator struct {
	Key    string      `json:"key"`
	Chart  string      `json:"chart"`
	Series string      `json:"series"`
	Label  string      `json:"label"`
	Data   []TimeValue `json:"data"`
}

// Trade 是一笔已平仓交易。
type Trade struct {
	ID         int     `json:"id"`
	Direction  string  `json:"direction"`
	EntryTime  string  `json:"entryTime"`
	ExitTime   string  `json:"exitTime"`
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	Quantity   float64 `json:"quantity"`
	Profit     float64 `json:"profit"`
}

// Order 是归一化后的引擎订单记录。
type Order struct {
	ID           int64    `json:"id"`
	Symbol       string   `json:"symbol,omitempty"`
	Time         string   `json:"time"`
	Type         string   `json:"type"`
	Direction    string   `json:"direction"`
	Status       string   `json:"status"`
	Quantity     float64  `json:"quantity"`
	Price        *float64 `json:"price"`
	LastFillTime string   `json:"lastFillTime,omitempty"`
	Tag          string   `json:"tag,omitempty"`
}

// Artifacts 记录任务工作目录里的产物引用。
type Artifacts struct {
	SummaryPath     string  `json:"summaryPath"`
	ReportPath      string  `json:"reportPath,omitempty"`
	JobDir          string  `json:"jobDir"`
	Stdout          *string `json:"stdout"`
	Stderr          *string `json:"stderr"`
	OrderEventsPath string  `json:"orderEventsPath,omitempty"`
	LogPath         string  `json:"logPath,omitempty"`
	EquityChartPath string  `json:"equityChartPath,omitempty"`
}

// Result 是对外稳定的回测分析结构。
type Result struct {
	JobID            string             `json:"jobId"`
	Status           string             `json:"status"`
	Symbol           string             `json:"symbol"`
	Timeframe        string             `json:"timeframe"`
	Parameters       map[string]any     `json:"parameters"`
	StartDate        string             `json:"startDate,omitempty"`
	EndDate          string             `json:"endDate,omitempty"`
	DurationSeconds  float64            `json:"durationSeconds"`
	StartEquity      *float64           `json:"startEquity,omitempty"`
	NetProfit        *float64           `json:"netProfit,omitempty"`
	NetProfitPercent *float64           `json:"netProfitPercent,omitempty"`
	Metrics          map[string]float64 `json:"metrics"`
	EquityCurve      []TimeValue        `json:"equityCurve"`
	PriceSeries      []Candle           `json:"priceSeries"`
	Indicators       []Indicator        `json:"indicators"`
	Trades           []Trade            `json:"trades"`
	Orders           []Order            `json:"orders"`
	Artifacts        Artifacts          `json:"artifacts"`
}
