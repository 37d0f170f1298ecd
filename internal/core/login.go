package core

import (
	"context"
	"fmt"
)

// LoginInvocation is `appc login` with the configured credentials.
func LoginInvocation(cfg Config) (Invocation, error) {
	if err := Assert(cfg.Login != "", "no login configured (config key login)"); err != nil {
		return Invocation{}, err
	}
	args := []string{"login", "--username", cfg.Login}
	if cfg.Password != "" {
		args = append(args, "--password", cfg.Password)
	}
	return Invocation{Command: "appc", Args: args}, nil
}

// Login runs appc login, forwarding its output as log lines.
func Login(ctx context.Context, cfg Config, spawn func(context.Context, CmdSpec) (CmdResult, error), emit Emitter) error {
	inv, err := LoginInvocation(cfg)
	if err != nil {
		return err
	}
	if spawn == nil {
		spawn = RunStreaming
	}
	emitMaybe(emit, Status("login", "Logging in as "+cfg.Login, nil))
	res, err := spawn(ctx, CmdSpec{
		Path:       inv.Command,
		Args:       inv.Args,
		StdoutLine: func(s string) { emitMaybe(emit, LogLineEvent("login", ClassifyLine(s), "stdout")) },
		StderrLine: func(s string) { emitMaybe(emit, LogLineEvent("login", ClassifyLine(s), "stderr")) },
	})
	if err != nil || res.ExitCode != 0 {
		ie := &InvocationError{Command: inv.String(), ExitCode: res.ExitCode, Err: err}
		emitMaybe(emit, Err("login", ErrorObject{
			Code:       "LOGIN_FAILED",
			Message:    ie.Error(),
			Suggestion: "Check the login and password config keys.",
		}))
		return ie
	}
	emitMaybe(emit, Log("login", fmt.Sprintf("Logged in as %s", cfg.Login)))
	emitMaybe(emit, Result("login", true, map[string]any{"login": cfg.Login}))
	return nil
}
