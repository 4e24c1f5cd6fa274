package main

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/client/session"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with inactivity logout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return repl(cmd.Context(), a)
		},
	}
}

// repl runs the interactive shell loop. Each line is executed as a
// shipdash command; the idle timer logs the user out after
// opts.IdleTimeout without input.
func repl(ctx context.Context, a *app) error {
	var loggedOut atomic.Bool
	onExpire := func() {
		if !a.session.HasToken() {
			return
		}
		if err := a.session.Logout(); err != nil {
			a.log.Error("idle logout failed", zap.Error(err))
			return
		}
		loggedOut.Store(true)
		a.log.Info("logged out after inactivity", zap.Duration("timeout", a.opts.IdleTimeout))
	}
	idle := session.NewIdleTimer(a.opts.IdleTimeout, onExpire)
	defer func() { idle.Stop() }()

	a.printf("Type help for commands, exit to quit.\n")
	for {
		a.printf("shipdash> ")
		if !a.in.Scan() {
			return a.in.Err()
		}
		if idle.Expired() {
			if loggedOut.Swap(false) {
				a.printf("Session expired due to inactivity, please log in again.\n")
			}
			idle = session.NewIdleTimer(a.opts.IdleTimeout, onExpire)
		} else {
			idle.Touch()
		}

		args := splitArgs(strings.TrimSpace(a.in.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			continue
		}

		root := newRootCmd(a)
		root.SetArgs(args)
		// errors are already printed by cobra
		_ = root.ExecuteContext(ctx)
	}
}
