package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shipdash/internal/models"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			users, err := a.dash.ListUsers(cmd.Context(), u)
			if err != nil {
				return err
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
			for _, x := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", x.ID, x.Username, x.Role)
			}
			return tw.Flush()
		},
	}

	var (
		id   string
		req  models.UserRequest
		role string
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Create an account, or update it when --id is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			req.Role = models.Role(role)
			saved, err := a.dash.SaveUser(cmd.Context(), u, id, req)
			if err != nil {
				return err
			}
			a.printf("User %s saved (%s, %s)\n", saved.Username, saved.ID, saved.Role)
			return nil
		},
	}
	f := save.Flags()
	f.StringVar(&id, "id", "", "account id to update")
	f.StringVar(&req.Username, "username", "", "username")
	f.StringVar(&req.Password, "password", "", "password; empty keeps the current one on update")
	f.StringVar(&role, "role", string(models.RoleUser), "admin or user")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			if err := a.dash.DeleteUser(cmd.Context(), u, args[0]); err != nil {
				return err
			}
			a.printf("User %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, save, del)
	return cmd
}
