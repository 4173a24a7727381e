// Package lean 负责与外部 Lean 回测引擎交互：准备隔离执行环境、
// 以子进程方式调用 Launcher、并在工作目录里定位输出产物。
package lean

import (
	"errors"
	"fmt"
)

var (
	// ErrLauncherNotFound 表示 Launcher 目录不存在，区别于引擎执行失败。
	ErrLauncherNotFound = errors.New("lean launcher not found")
	// ErrMissingArtifact 表示引擎自称成功却没有产出 summary 文件。
	ErrMissingArtifact = errors.New("no summary artifact produced")
)

// EngineError 表示引擎以非零退出码结束，Detail 为捕获的 stderr（为空时回退 stdout）。
type EngineError struct {
	ExitCode int
	Detail   string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("Lean exited with code %d: %s", e.ExitCode, e.Detail)
}
