package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"TamilFM/core/profile"
)

var profileName string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile, or update the full name with --name",
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		identity := app.requireIdentity()

		ctx := context.Background()
		if err := app.profiles.Load(ctx, identity); err != nil {
			fmt.Fprintln(os.Stderr, "Profile load failed:", err)
			os.Exit(1)
		}

		if profileName != "" {
			if err := app.profiles.Save(ctx, profileName); err != nil {
				fmt.Fprintln(os.Stderr, "Profile save failed:", err)
				os.Exit(1)
			}
		}

		state := app.profiles.State()
		if state.Profile == nil {
			fmt.Println("No profile record yet.")
			return
		}
		fmt.Printf("Name:   %s\n", state.Profile.FullName)
		fmt.Printf("Email:  %s\n", state.Profile.Email)
		fmt.Printf("Member since: %s\n", profile.FormatDate(state.Profile.CreatedAt))
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "new full name to save")
	rootCmd.AddCommand(profileCmd)
}
