package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Establish a session from an API token",
	Long: `Login stores the bearer token issued by the Urgent2kay web login and
establishes the local session used by authenticated commands.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a.sessions.Logout()
		successf("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := a.sessions.Current()
		if !sess.IsAuthenticated() {
			warnf("not logged in")
			return nil
		}
		fmt.Printf("user: %s\nrole: %s\n", sess.UserID, sess.Role)
		if !sess.ExpiresAt.IsZero() {
			fmt.Printf("expires: %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "bearer token from the web login")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("need --token")
	}

	sess, err := a.sessions.Login(token)
	if err != nil {
		return err
	}
	successf("logged in as %s (%s)", sess.UserID, sess.Role)
	return nil
}
