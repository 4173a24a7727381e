package lean

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const summarySuffix = "-summary.json"

// ArtifactSet 聚合引擎输出文件的位置。ReportPath 指向按命名约定推导出的
// 兄弟文件，可能并不存在；OrderEventsPath 与 LogPath 均为可选。
type ArtifactSet struct {
	SummaryPath     string
	ReportPath      string
	OrderEventsPath string
	LogPath         string
}

// LocateArtifacts 在任务工作目录里按命名约定定位输出文件。
// summary 缺失是致命错误：引擎声称成功却没有可用产出。
func LocateArtifacts(jobDir string) (ArtifactSet, error) {
	summaries, err := filepath.Glob(filepath.Join(jobDir, "*"+summarySuffix))
	if err != nil {
		return ArtifactSet{}, err
	}
	if len(summaries) == 0 {
		return ArtifactSet{}, fmt.Errorf("%w in %s", ErrMissingArtifact, jobDir)
	}
	sort.Strings(summaries)
	summary := summaries[0]

	set := ArtifactSet{
		SummaryPath: summary,
		ReportPath:  strings.TrimSuffix(summary, summarySuffix) + ".json",
	}
	if matches, _ := filepath.Glob(filepath.Join(jobDir, "*-order-events.json")); len(matches) > 0 {
		sort.Strings(matches)
		set.OrderEventsPath = matches[0]
	}
	if matches, _ := filepath.Glob(filepath.Join(jobDir, "*log.txt")); len(matches) > 0 {
		sort.Strings(matches)
		set.LogPath = matches[0]
	}
	return set, nil
}
