package lean

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const launcherDLL = "QuantConnect.Lean.Launcher.dll"

// Invocation 捕获一次引擎子进程执行的结果。
type Invocation struct {
	ExitCode        int
	Stdout          string
	Stderr          string
	DurationSeconds float64
}

// Invoke 以子进程方式运行引擎并同步等待退出。
// 没有超时与取消机制：挂死的引擎进程会一直占住一个 worker 槽位，
// 这是已知缺口，超时策略未定前不擅自处理。
func (r *Runner) Invoke(configPath, workDir string) (Invocation, error) {
	if _, err := os.Stat(r.cfg.LauncherPath); err != nil {
		return Invocation{}, fmt.Errorf("%w: %s", ErrLauncherNotFound, r.cfg.LauncherPath)
	}

	cmd := r.newCmd(configPath, workDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	inv := Invocation{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		DurationSeconds: time.Since(start).Seconds(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		inv.ExitCode = 0
		return inv, nil
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
		detail := strings.TrimSpace(inv.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(inv.Stdout)
		}
		return inv, &EngineError{ExitCode: inv.ExitCode, Detail: detail}
	default:
		// 进程没能启动（dotnet 缺失等），与引擎失败区分开。
		return inv, fmt.Errorf("launch engine failed: %w", err)
	}
}
