package tools

import (
	"context"
	"strings"
	"testing"
)

func TestRunnerExec(t *testing.T) {
	runner := NewRunner(t.TempDir())

	result, err := runner.Exec(context.Background(), "echo", []string{"hello"}, 0)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if result.ExitCode != 0 || result.TimedOut {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRunnerExecNonZeroExit(t *testing.T) {
	runner := NewRunner(t.TempDir())

	result, err := runner.Exec(context.Background(), "sh", []string{"-c", "exit 3"}, 0)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestRunnerExecTimeout(t *testing.T) {
	runner := NewRunner(t.TempDir())

	result, err := runner.Exec(context.Background(), "sleep", []string{"5"}, 100)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !result.TimedOut {
		t.Error("expected timeout")
	}
}

func TestExecResultOutput(t *testing.T) {
	if got := (ExecResult{Stdout: "out"}).Output(); got != "out" {
		t.Errorf("got %q", got)
	}
	if got := (ExecResult{Stderr: "err"}).Output(); got != "err" {
		t.Errorf("got %q", got)
	}
	if got := (ExecResult{Stdout: "out", Stderr: "err"}).Output(); got != "out\nerr" {
		t.Errorf("got %q", got)
	}
}

func TestIsSensitiveEnvVar(t *testing.T) {
	sensitive := []string{"OPENAI_API_KEY", "db_password", "GITHUB_TOKEN", "aws_secret"}
	for _, name := range sensitive {
		if !isSensitiveEnvVar(name) {
			t.Errorf("%s should be sensitive", name)
		}
	}
	safe := []string{"PATH", "HOME", "EDITOR", "LANG"}
	for _, name := range safe {
		if isSensitiveEnvVar(name) {
			t.Errorf("%s should not be sensitive", name)
		}
	}
}

func TestFilterEnvironmentDropsSecrets(t *testing.T) {
	t.Setenv("SPARTACUS_TEST_API_KEY", "hunter2")
	t.Setenv("SPARTACUS_TEST_PLAIN", "visible")

	for _, env := range filterEnvironment() {
		if strings.HasPrefix(env, "SPARTACUS_TEST_API_KEY=") {
			t.Error("sensitive variable leaked into child environment")
		}
	}

	found := false
	for _, env := range filterEnvironment() {
		if env == "SPARTACUS_TEST_PLAIN=visible" {
			found = true
		}
	}
	if !found {
		t.Error("non-sensitive variable was dropped")
	}
}
