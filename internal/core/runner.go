package core

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"
)

const defaultGracePeriod = 3 * time.Second

// CmdSpec describes a child process whose output is delivered line by line.
type CmdSpec struct {
	Path string
	Args []string
	Dir  string
	Env  map[string]string

	StdoutLine func(string)
	StderrLine func(string)

	// GracePeriod is the wait between SIGINT, SIGTERM and SIGKILL on cancel.
	GracePeriod time.Duration
}

type CmdResult struct {
	ExitCode int
	PID      int
	Duration time.Duration
}

// RunStreaming starts spec and blocks until it exits. Partial lines are buffered
// until their newline so callbacks always receive whole lines. Cancelling ctx
// signals the whole process group, escalating to SIGKILL.
func RunStreaming(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	start := time.Now()

	cmd := exec.Command(spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = mergeEnv(os.Environ(), spec.Env)

	// Own process group so ti's node children are signalled too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{}, err
	}

	if err := cmd.Start(); err != nil {
		return CmdResult{}, err
	}
	pid := cmd.Process.Pid

	stdoutDone := make(chan struct{})
	stderrDone := make(chan struct{})
	go streamLines(stdout, spec.StdoutLine, stdoutDone)
	go streamLines(stderr, spec.StderrLine, stderrDone)

	// Wait closes the pipes, so it only runs once both readers hit EOF.
	waitDone := make(chan error, 1)
	go func() {
		<-stdoutDone
		<-stderrDone
		waitDone <- cmd.Wait()
	}()

	finish := func(waitErr error) (CmdResult, error) {
		res := CmdResult{ExitCode: exitCodeFromErr(waitErr), PID: pid, Duration: time.Since(start)}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, waitErr
	}

	select {
	case err := <-waitDone:
		return finish(err)
	case <-ctx.Done():
	}

	grace := spec.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		_ = syscall.Kill(-pid, sig)
		select {
		case err := <-waitDone:
			return finish(err)
		case <-time.After(grace):
		}
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return finish(<-waitDone)
}

func streamLines(r io.Reader, onLine func(string), done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	// ti --log-level trace can print very long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(strings.TrimSuffix(scanner.Text(), "\r"))
		}
	}
	// Keep draining after a too-long line so the child never blocks on a full pipe.
	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

func exitCodeFromErr(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
	}
	return 1
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	m := map[string]string{}
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	for k, v := range extra {
		m[k] = v
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
