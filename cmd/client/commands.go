package main

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shipdash/internal/authz"
)

// newRootCmd builds the full command tree over a. The shell builds a fresh
// tree per line so flag values never leak between commands.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "shipdash",
		Short:        "Shipping operations dashboard client",
		Version:      fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.dash != nil {
				return nil
			}
			applyEnv(cmd, a)
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.BaseURL, "url", a.opts.BaseURL, "backend base URL (env BACKEND_URL)")
	pf.StringVar(&a.opts.StorePath, "store", a.opts.StorePath, "local store file (env SHIPDASH_STORE)")
	pf.StringVar(&a.opts.CAFile, "ca", a.opts.CAFile, "CA certificate for an https backend")
	pf.DurationVar(&a.opts.IdleTimeout, "idle-timeout", a.opts.IdleTimeout, "shell inactivity logout")
	pf.StringVar(&a.opts.LogLevel, "log-level", a.opts.LogLevel, "log level")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newVerifyCmd(a),
		newSyncCmd(a),
		newMaterialCmd(a),
		newFinishedGoodCmd(a),
		newObservationCmd(a),
		newCaptureCmd(a),
		newUSPSCmd(a),
		newReportCmd(a),
		newUsersCmd(a),
		newShellCmd(a),
	)
	return root
}

// applyEnv lets BACKEND_URL and SHIPDASH_STORE override the defaults but
// not an explicit flag.
func applyEnv(cmd *cobra.Command, a *app) {
	url, store := a.opts.BaseURL, a.opts.StorePath
	a.opts.ApplyEnv()
	if cmd.Flags().Changed("url") {
		a.opts.BaseURL = url
	}
	if cmd.Flags().Changed("store") {
		a.opts.StorePath = store
	}
}

func newTable(a *app) *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and run the initial sync",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				saved, _ := a.session.SavedUser()
				username = a.promptDefault("Username", saved.Username)
			}
			if password == "" {
				password = a.prompt("Password")
			}
			id, err := a.session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			a.printf("Logged in as %s (%s), %s\n", id.Username, id.Role, a.session.State())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the token and sync state",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			a.printf("%s (%s), %s\n", u.Username, u.Role, a.session.State())
			var sections []string
			for _, r := range authz.Visible(u) {
				sections = append(sections, string(r))
			}
			a.printf("sections: %s\n", strings.Join(sections, ", "))
			return nil
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the stored token against the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.HasToken() {
				return errNotLoggedIn
			}
			id, err := a.session.VerifyToken(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Token valid for %s (%s)\n", id.Username, id.Role)
			return nil
		},
	}
}

func newSyncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with the backend",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "pull",
			Short: "Download collections from the backend",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSync(cmd.Context(), a, a.remote.Pull, "Pulled")
			},
		},
		&cobra.Command{
			Use:   "push",
			Short: "Upload local collections to the backend",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if !a.session.HasToken() {
					return errNotLoggedIn
				}
				return runSync(cmd.Context(), a, a.remote.Push, "Pushed")
			},
		},
	)
	return cmd
}

func runSync(ctx context.Context, a *app, fn func(context.Context) error, done string) error {
	if err := fn(ctx); err != nil {
		return err
	}
	a.printf("%s\n", done)
	return nil
}
