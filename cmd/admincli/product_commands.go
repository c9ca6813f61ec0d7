package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-admin-client/gateway"
)

func productsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(
		productsListCmd(a),
		productsGetCmd(a),
		productsCreateCmd(a),
		productsUpdateCmd(a),
		productsDeleteCmd(a),
	)
	return cmd
}

func productsListCmd(a *app) *cobra.Command {
	var params gateway.ListProductsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			products, page, err := a.client.Products().List(cmd.Context(), params)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSTOCK\tACTIVE\tCATEGORY")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%s\n", p.ID, p.Title, p.Price, p.Stock, p.IsActive, p.Category.Name)
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
	cmd.Flags().StringVar(&params.Search, "search", "", "title search term")
	cmd.Flags().IntVar(&params.CategoryID, "category", 0, "filter by category id")
	return cmd
}

func productsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			product, err := a.client.Products().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(product)
		},
	}
}

func productsCreateCmd(a *app) *cobra.Command {
	var params gateway.CreateProductParams
	var imagePath string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			params.IsActive = !inactive

			image, closeImage, err := openImage(imagePath)
			if err != nil {
				return err
			}
			defer closeImage()
			params.Image = image

			product, err := a.client.Products().Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(product)
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "product title")
	cmd.Flags().StringVar(&params.Description, "description", "", "product description")
	cmd.Flags().Float64Var(&params.Price, "price", 0, "unit price")
	cmd.Flags().StringVar(&params.SKU, "sku", "", "stock keeping unit")
	cmd.Flags().IntVar(&params.Stock, "stock", 0, "units in stock")
	cmd.Flags().IntVar(&params.CategoryID, "category", 0, "category id")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create as inactive")
	cmd.Flags().StringVar(&imagePath, "image", "", "image file to upload (switches to multipart)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func productsUpdateCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		price       float64
		sku         string
		stock       int
		categoryID  int
		active      bool
		imagePath   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product (only the provided flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			var params gateway.UpdateProductParams
			if cmd.Flags().Changed("title") {
				params.Title = &title
			}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}
			if cmd.Flags().Changed("price") {
				params.Price = &price
			}
			if cmd.Flags().Changed("sku") {
				params.SKU = &sku
			}
			if cmd.Flags().Changed("stock") {
				params.Stock = &stock
			}
			if cmd.Flags().Changed("category") {
				params.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("active") {
				params.IsActive = &active
			}

			image, closeImage, err := openImage(imagePath)
			if err != nil {
				return err
			}
			defer closeImage()
			params.Image = image

			product, err := a.client.Products().Update(cmd.Context(), id, params)
			if err != nil {
				return err
			}
			return printJSON(product)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "product title")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().StringVar(&sku, "sku", "", "stock keeping unit")
	cmd.Flags().IntVar(&stock, "stock", 0, "units in stock")
	cmd.Flags().IntVar(&categoryID, "category", 0, "category id")
	cmd.Flags().BoolVar(&active, "active", true, "active flag")
	cmd.Flags().StringVar(&imagePath, "image", "", "replacement image file")
	return cmd
}

func productsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.Products().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted product %d\n", id)
			return nil
		},
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// openImage opens a file for multipart upload. An empty path yields a nil
// image (JSON encoding) and a no-op closer.
func openImage(path string) (*gateway.ImageFile, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open image")
	}
	return &gateway.ImageFile{Name: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}
