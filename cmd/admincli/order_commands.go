package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-admin-client/gateway"
)

func ordersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage customer orders",
	}
	cmd.AddCommand(
		ordersListCmd(a),
		ordersGetCmd(a),
		ordersSetStatusCmd(a),
	)
	return cmd
}

func ordersListCmd(a *app) *cobra.Command {
	var params gateway.ListOrdersParams
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			params.Status = gateway.OrderStatus(status)
			orders, page, err := a.client.Orders().List(cmd.Context(), params)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCUSTOMER\tTOTAL\tSTATUS\tITEMS\tCREATED")
			for _, o := range orders {
				customer := "-"
				if o.User != nil {
					customer = o.User.Email
				}
				fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%d\t%s\n",
					o.ID, customer, o.Total, o.Currency, o.Status, len(o.Items), o.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if page != nil {
				fmt.Printf("page %d/%d (%d total)\n", page.Page, page.Pages, page.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (PENDING|PAID|FAILED|CANCELLED|FULFILLED)")
	return cmd
}

func ordersGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			order, err := a.client.Orders().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	}
}

func ordersSetStatusCmd(a *app) *cobra.Command {
	var status string
	var paymentRef string

	cmd := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			order, err := a.client.Orders().UpdateStatus(cmd.Context(), id, gateway.UpdateOrderStatusParams{
				Status:     gateway.OrderStatus(status),
				PaymentRef: paymentRef,
			})
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status (PENDING|PAID|FAILED|CANCELLED|FULFILLED)")
	cmd.Flags().StringVar(&paymentRef, "payment-ref", "", "payment reference, e.g. when marking PAID")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
