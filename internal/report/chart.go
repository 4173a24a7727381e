package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	chartWidthPx  = 1200
	chartHeightPx = 520
)

// RenderEquityChart 在工作目录额外渲染一张权益曲线预览页（HTML）。
// 纯附加产物：渲染失败由调用方记录日志后忽略，不影响任务结果。
func RenderEquityChart(path, title string, curve []TimeValue) error {
	if len(curve) == 0 {
		return fmt.Errorf("equity curve is empty")
	}
	xAxis := make([]string, len(curve))
	data := make([]opts.LineData, len(curve))
	for i, p := range curve {
		xAxis[i] = p.Time
		data[i] = opts.LineData{Value: p.Value}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			Width:     fmt.Sprintf("%dpx", chartWidthPx),
			Height:    fmt.Sprintf("%dpx", chartHeightPx),
			PageTitle: title,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Left: "left"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("Equity", data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
	)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}
