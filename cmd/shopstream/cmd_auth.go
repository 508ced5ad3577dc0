package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopstream/app/models"
	"shopstream/app/store"
)

// shopstream login <email> <password>
var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		a.auth.Login(cmd.Context(), args[0], args[1])
		return nil
	},
}

// shopstream signup <email> <password> [username]
var signupCmd = &cobra.Command{
	Use:   "signup <email> <password> [username]",
	Short: "Create an account (email verification required before login)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		creds := models.Credentials{
			Email:                args[0],
			Password:             args[1],
			PasswordConfirmation: args[1],
		}
		if len(args) == 3 {
			creds.Username = args[2]
		}

		a.auth.Signup(cmd.Context(), creds)
		return nil
	},
}

// shopstream verify <token>
var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify an email with the token from the gateway log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		a.auth.VerifyEmail(cmd.Context(), args[0], "signup")
		return nil
	},
}

// shopstream logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and purge the persisted cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}
		a.auth.Logout(cmd.Context())
		return nil
	},
}

// shopstream whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}

		if a.auth.State() != store.StateAuthenticated {
			fmt.Println("anonymous")
			return nil
		}
		id, _ := a.auth.Identity()
		fmt.Printf("%s <%s> (id %d)\n", id.Username, id.Email, id.ID)
		return nil
	},
}
