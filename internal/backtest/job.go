package backtest

import (
	"encoding/json"
	"time"

	"controlroom/internal/report"
)

// 任务状态单向推进：queued → running → {completed | error}，终态不再变化。
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Request 是一次回测提交请求，提交后不可变。
type Request struct {
	AlgorithmID string         `json:"algorithmId" binding:"required"`
	Symbol      string         `json:"symbol" binding:"required"`
	Timeframe   string         `json:"timeframe" binding:"required"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Record 是任务在任一阶段对外呈现的记录。
// 完成后整条记录被归一化结果取代（沿用引擎报告的对外 JSON 形状），
// 出错时退化为最小错误记录，绝不留下半更新状态。
type Record struct {
	JobID       string
	Status      string
	Symbol      string
	Timeframe   string
	Parameters  map[string]any
	SubmittedAt time.Time
	Error       string
	Result      *report.Result
}

type pendingJSON struct {
	JobID       string         `json:"jobId"`
	Status      string         `json:"status"`
	Symbol      string         `json:"symbol"`
	Timeframe   string         `json:"timeframe"`
	Parameters  map[string]any `json:"parameters"`
	SubmittedAt float64        `json:"submittedAt"`
	Error       string         `json:"error,omitempty"`
}

// MarshalJSON 让完成态记录直接以归一化结果的形状上线。
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Status == StatusCompleted && r.Result != nil {
		return json.Marshal(r.Result)
	}
	params := r.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return json.Marshal(pendingJSON{
		JobID:       r.JobID,
		Status:      r.Status,
		Symbol:      r.Symbol,
		Timeframe:   r.Timeframe,
		Parameters:  params,
		SubmittedAt: float64(r.SubmittedAt.UnixNano()) / float64(time.Second),
		Error:       r.Error,
	})
}

func (r *Record) copy() Record {
	if r == nil {
		return Record{}
	}
	return *r
}
