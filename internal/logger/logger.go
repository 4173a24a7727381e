// Package logger 提供进程级结构化日志：slog TextHandler 背后的一组
// 包级 printf 风格入口，回测 worker 与 HTTP 层共用同一输出。
// 级别与输出均可在运行期切换（main 会把日志 tee 到文件）。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"log/slog"
)

var (
	levelVar slog.LevelVar

	mu      sync.RWMutex
	current *slog.Logger
)

func init() {
	levelVar.Set(slog.LevelInfo)
	current = newLogger(os.Stdout)
}

func newLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar}))
}

// SetOutput 重建日志输出目标。
func SetOutput(w io.Writer) {
	mu.Lock()
	current = newLogger(w)
	mu.Unlock()
}

// SetLevel 按配置字符串调整全局级别，无法识别的取值回落 info。
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "info":
		levelVar.Set(slog.LevelInfo)
	case "warn", "warning":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

func active() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debugf(format string, v ...any) {
	active().Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	active().Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	active().Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	active().Error(fmt.Sprintf(format, v...))
}
