package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as admin and print the token",
	Long: `Check the admin password and store a fresh login token in the sink.
The password is read from --password or FOLIO_ADMIN_LOGIN.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()
		if rt.Auth == nil {
			fatal("Admin login is disabled", errors.New("admin.password is not configured"))
		}

		password := loginPassword
		if password == "" {
			password = os.Getenv("FOLIO_ADMIN_LOGIN")
		}
		token, err := rt.Auth.Login(context.Background(), password)
		if err != nil {
			fatal("Login failed", err)
		}
		fmt.Println(token)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the admin login flag",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()
		if rt.Auth == nil {
			fatal("Admin login is disabled", errors.New("admin.password is not configured"))
		}
		if err := rt.Auth.Logout(context.Background()); err != nil {
			fatal("Logout failed", err)
		}
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Report whether an admin is logged in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()
		if rt.Auth != nil && rt.Auth.LoggedIn(context.Background()) {
			fmt.Println("admin")
			return
		}
		fmt.Println("anonymous")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Admin password")
}
