package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/richxcame/finsight/internal/subscriptions"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(dueSoonCmd)

	detectCmd.Flags().String("user", "", "User ID to scan")
	dueSoonCmd.Flags().String("user", "", "User ID to query")
	dueSoonCmd.Flags().Int("days", 7, "Look-ahead window in days")
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect recurring subscriptions from a user's expenses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		subs, err := a.subscriptions.DetectSubscriptions(cmd.Context(), userID)
		if err != nil {
			return err
		}
		printSubscriptions(cmd, subs)
		return nil
	},
}

var dueSoonCmd = &cobra.Command{
	Use:   "due-soon",
	Short: "List active subscriptions due within a window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")
		if days < 0 {
			return fmt.Errorf("--days must not be negative, got %d", days)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		subs, err := a.subscriptions.FindDueSoon(cmd.Context(), userID, days)
		if err != nil {
			return err
		}
		printSubscriptions(cmd, subs)
		return nil
	},
}

func printSubscriptions(cmd *cobra.Command, subs []*subscriptions.Subscription) {
	if len(subs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no subscriptions")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MERCHANT\tAMOUNT\tLAST PAID\tNEXT DUE\tSTATUS")
	for _, s := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Merchant,
			s.Amount.StringFixed(2),
			s.LastPaidDate.Format("2006-01-02"),
			s.NextDueDate.Format("2006-01-02"),
			s.Status,
		)
	}
	_ = w.Flush()
}
