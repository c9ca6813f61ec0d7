package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show aggregate shop statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			stats, err := a.client.Dashboard().Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Products:   %d\n", stats.TotalProducts)
			fmt.Printf("Categories: %d\n", stats.TotalCategories)
			fmt.Printf("Orders:     %d\n", stats.TotalOrders)
			fmt.Printf("Users:      %d\n", stats.TotalUsers)
			fmt.Printf("Revenue:    %.2f\n", stats.TotalRevenue)

			if len(stats.RecentOrders) == 0 {
				return nil
			}
			fmt.Println("\nRecent orders:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOTAL\tSTATUS\tCREATED")
			for _, o := range stats.RecentOrders {
				fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\n", o.ID, o.Total, o.Currency, o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
