package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var signinCmd = &cobra.Command{
	Use:   "signin <email> <password>",
	Short: "Sign in with an existing account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		if err := app.sessions.SignIn(context.Background(), args[0], args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "Sign-in failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Signed in as %s\n", args[0])
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <email> <password> <full name...>",
	Short: "Create an account and sign in",
	Args:  cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		fullName := strings.Join(args[2:], " ")
		if err := app.sessions.SignUp(context.Background(), args[0], args[1], fullName); err != nil {
			fmt.Fprintln(os.Stderr, "Sign-up failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Account created, signed in as %s\n", args[0])
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and clear the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		if err := app.sessions.SignOut(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "Sign-out failed:", err)
			os.Exit(1)
		}
		fmt.Println("Signed out.")
	},
}

func init() {
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(signoutCmd)
}
