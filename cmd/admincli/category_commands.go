package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-admin-client/gateway"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage product categories",
	}
	cmd.AddCommand(
		categoriesListCmd(a),
		categoriesGetCmd(a),
		categoriesCreateCmd(a),
		categoriesUpdateCmd(a),
		categoriesDeleteCmd(a),
	)
	return cmd
}

func categoriesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			categories, err := a.client.Categories().List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRODUCTS\tDESCRIPTION")
			for _, c := range categories {
				count := 0
				if c.Count != nil {
					count = c.Count.Products
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", c.ID, c.Name, count, c.Description)
			}
			return w.Flush()
		},
	}
}

func categoriesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			category, err := a.client.Categories().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}
}

func categoriesCreateCmd(a *app) *cobra.Command {
	var params gateway.CreateCategoryParams
	var imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			image, closeImage, err := openImage(imagePath)
			if err != nil {
				return err
			}
			defer closeImage()
			params.Image = image

			category, err := a.client.Categories().Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "category name")
	cmd.Flags().StringVar(&params.Description, "description", "", "category description")
	cmd.Flags().StringVar(&imagePath, "image", "", "image file to upload (switches to multipart)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func categoriesUpdateCmd(a *app) *cobra.Command {
	var (
		name        string
		description string
		imagePath   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category (only the provided flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			var params gateway.UpdateCategoryParams
			if cmd.Flags().Changed("name") {
				params.Name = &name
			}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}

			image, closeImage, err := openImage(imagePath)
			if err != nil {
				return err
			}
			defer closeImage()
			params.Image = image

			category, err := a.client.Categories().Update(cmd.Context(), id, params)
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "category description")
	cmd.Flags().StringVar(&imagePath, "image", "", "replacement image file")
	return cmd
}

func categoriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.Categories().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted category %d\n", id)
			return nil
		},
	}
}
