package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("user", "", "User ID to seed")
	seedCmd.Flags().Bool("force", false, "Delete the user's transactions and alerts before seeding")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a year of demo transactions for a user",
	Long: `Generate deterministic demo history for a user. Without --force the
command does nothing when the user already has transactions.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	userID, err := userFlag(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var n int
	if force {
		n, err = a.demo.ForceReseed(cmd.Context(), userID)
	} else {
		n, err = a.demo.SeedIfEmpty(cmd.Context(), userID)
	}
	if err != nil {
		return err
	}

	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "user already has transactions, nothing seeded")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions\n", n)
	return nil
}
