// Package tools provides the built-in tool definitions: the final_answer
// sentinel, a sandboxed python executor, a root-confined file reader, a
// pluggable web search, and a product search exercising field injection.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// ExecResult holds the result of a command execution.
type ExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out"`
	DurationMs int64  `json:"duration_ms"`
}

// Output returns combined stdout and stderr.
func (r ExecResult) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// sensitiveEnvPatterns are case-insensitive suffixes for environment
// variables that are excluded from child processes.
var sensitiveEnvPatterns = []string{
	"_API_KEY",
	"_SECRET",
	"_TOKEN",
	"_PASSWORD",
	"_CREDENTIAL",
}

// safeEnvVars are always included regardless of filtering.
var safeEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"PYTHONPATH": true, "VIRTUAL_ENV": true, "PYENV_ROOT": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range sensitiveEnvPatterns {
		if strings.HasSuffix(upper, pattern) {
			return true
		}
	}
	return false
}

// filterEnvironment returns the process environment minus sensitive
// variables.
func filterEnvironment() []string {
	var filtered []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := parts[0]
		if safeEnvVars[name] || !isSensitiveEnvVar(name) {
			filtered = append(filtered, env)
		}
	}
	return filtered
}

// Runner executes commands on the local machine with a filtered environment
// and per-command timeouts.
type Runner struct {
	workingDir       string
	defaultTimeoutMs int
	maxTimeoutMs     int
}

// NewRunner creates a Runner rooted at workingDir. An empty workingDir uses
// the process working directory.
func NewRunner(workingDir string) *Runner {
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}
	return &Runner{
		workingDir:       workingDir,
		defaultTimeoutMs: 10000,
		maxTimeoutMs:     600000,
	}
}

// WorkingDirectory returns the runner's root.
func (r *Runner) WorkingDirectory() string {
	return r.workingDir
}

// Exec runs a command with arguments, bounded by timeoutMs (clamped to the
// runner's maximum; 0 uses the default).
func (r *Runner) Exec(ctx context.Context, name string, args []string, timeoutMs int) (*ExecResult, error) {
	if timeoutMs <= 0 {
		timeoutMs = r.defaultTimeoutMs
	}
	if timeoutMs > r.maxTimeoutMs {
		timeoutMs = r.maxTimeoutMs
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workingDir
	cmd.Env = filterEnvironment()

	// Process group for clean killability.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &ExecResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration.Milliseconds(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.TimedOut = true
			result.ExitCode = -1
			if cmd.Process != nil {
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("exec %s: %w", name, err)
		}
	}

	return result, nil
}
