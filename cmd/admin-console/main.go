package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/florawear/storefront/internal/admin"
	"github.com/florawear/storefront/internal/order"
)

type rootOptions struct {
	BaseURL string
	Token   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "admin-console",
		Short:         "Storefront admin order console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.BaseURL, "url", envOr("STOREFRONT_URL", "http://localhost:8080"), "storefront base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("STOREFRONT_SESSION"), "admin session token")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newSetStatusCommand(opts))

	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter order.Status
			if status != "" {
				parsed, err := order.ParseStatus(status)
				if err != nil {
					return err
				}
				filter = parsed
			}

			console := newConsole(opts)
			orders, err := console.Orders(cmd.Context(), filter)
			if err != nil {
				return err
			}

			for _, o := range orders {
				next := console.NextStatuses(o)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-10s  %8.2f  next: %v\n",
					o.ID, o.OrderNumber, o.Status, o.TotalAmount, next)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by order status")

	return cmd
}

func newSetStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <orderId> <status>",
		Short: "Transition an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := order.ParseStatus(args[1])
			if err != nil {
				return err
			}

			console := newConsole(opts)
			if err := console.Transition(cmd.Context(), args[0], status); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func newConsole(opts *rootOptions) *admin.Console {
	return admin.NewConsole(&admin.HTTPAPI{BaseURL: opts.BaseURL, Token: opts.Token})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
