package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	login := &cobra.Command{
		Use:       "login <creator|agency>",
		Short:     "Sign in with a demo account and sync with the remote store",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.UserTypeCreator), string(models.UserTypeAgency)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				accountType := models.UserType(strings.ToLower(strings.TrimSpace(args[0])))
				user, err := ws.Login(cmd.Context(), accountType)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Type)
				return nil
			})
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out; cataloged data stays on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				if ws.CurrentUser() == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				if err := ws.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				user := ws.CurrentUser()
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s, id %s)\n", user.Name, user.Email, user.Type, user.ID)
				return nil
			})
		},
	}

	return []*cobra.Command{login, logout, whoami}
}
