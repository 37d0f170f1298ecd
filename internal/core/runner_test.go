package core

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunStreamingDeliversWholeLines(t *testing.T) {
	requireShell(t)
	var mu sync.Mutex
	var stdout, stderr []string
	res, err := RunStreaming(context.Background(), CmdSpec{
		Path: "sh",
		Args: []string{"-c", `printf '[INFO] one\r\n[WA'; sleep 0.05; printf 'RN] two\n'; echo '[ERROR] three' 1>&2`},
		StdoutLine: func(s string) {
			mu.Lock()
			stdout = append(stdout, s)
			mu.Unlock()
		},
		StderrLine: func(s string) {
			mu.Lock()
			stderr = append(stderr, s)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("RunStreaming: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit = %d", res.ExitCode)
	}
	if strings.Join(stdout, "|") != "[INFO] one|[WARN] two" {
		t.Fatalf("stdout = %q", stdout)
	}
	if len(stderr) != 1 || Classify(stderr[0]) != CategoryError {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunStreamingExitCodeAndEnv(t *testing.T) {
	requireShell(t)
	var got string
	res, err := RunStreaming(context.Background(), CmdSpec{
		Path:       "sh",
		Args:       []string{"-c", `echo "$TILAUNCH_TEST"; exit 3`},
		Env:        map[string]string{"TILAUNCH_TEST": "hello"},
		StdoutLine: func(s string) { got = s },
	})
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want ExitError", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("exit = %d, want 3", res.ExitCode)
	}
	if got != "hello" {
		t.Fatalf("env not passed, got %q", got)
	}
}

func TestRunStreamingCancel(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := RunStreaming(ctx, CmdSpec{
		Path:        "sh",
		Args:        []string{"-c", "sleep 30"},
		GracePeriod: 200 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("cancel took too long")
	}
}

func TestMergeEnv(t *testing.T) {
	got := mergeEnv([]string{"A=1", "B=2", "C=x=y"}, map[string]string{"B": "3"})
	want := []string{"A=1", "B=3", "C=x=y"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("mergeEnv = %v, want %v", got, want)
	}
}
