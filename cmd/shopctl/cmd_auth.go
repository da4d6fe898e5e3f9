package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var signInCmd = &cobra.Command{
	Use:   "sign-in <email>",
	Short: "Sign in to the store",
	Long:  `Sign in with an email address. The password is read from the terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		sess, err := app.Account.SignIn(ctx, args[0], string(password))
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", sess.DisplayName, sess.Email)
		return nil
	},
}

var signOutCmd = &cobra.Command{
	Use:   "sign-out",
	Short: "Sign out and revoke the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if err := app.Account.SignOut(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		sess, _, err := app.Auth.Resolve(ctx)
		if err != nil {
			return err
		}
		if !app.Auth.IsAuthenticated() {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s <%s> (id %d)\n", sess.DisplayName, sess.Email, sess.UserID)
		return nil
	},
}
