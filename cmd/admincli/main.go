// Package main provides the admincli binary, a terminal front-end for the
// e-commerce admin backend. Only ADMIN users can hold a session.
package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "admincli",
		Short:         "E-commerce admin panel CLI",
		Long:          "admincli manages products, categories, orders and users of the shop backend.\nA session requires an ADMIN account; other roles are rejected client-side.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		Run: func(cmd *cobra.Command, args []string) {
			displayAppName(a.cfg.AppName)
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		productsCmd(a),
		categoriesCmd(a),
		ordersCmd(a),
		usersCmd(a),
		dashboardCmd(a),
	)

	return cmd
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
