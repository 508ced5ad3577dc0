package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shopstream/app/models"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse and manage the product catalog",
}

func init() {
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsAddCmd)
	productsCmd.AddCommand(productsDeleteCmd)
	productsCmd.AddCommand(productsUploadCmd)

	productsListCmd.Flags().String("category", "", "filter by category (case-insensitive)")

	productsAddCmd.Flags().String("title", "", "product title")
	productsAddCmd.Flags().Float64("price", 0, "price")
	productsAddCmd.Flags().String("category", "", "category")
	productsAddCmd.Flags().String("description", "", "description")
	productsAddCmd.Flags().Int("stock", 0, "stock on hand")
	productsAddCmd.Flags().String("sku", "", "SKU")
}

// shopstream products list — fetch and print the catalog.
var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch the catalog and print it, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}

		a.catalog.FetchAll(cmd.Context())

		rows := a.catalog.Products()
		if category, _ := cmd.Flags().GetString("category"); category != "" {
			rows = a.catalog.ByCategory(category)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCATEGORY\tSTOCK")
		for _, p := range rows {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%d\n", p.ID, p.Title, p.Price, p.Category, p.Stock)
		}
		return w.Flush()
	},
}

// shopstream products add — create a product.
var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		price, _ := cmd.Flags().GetFloat64("price")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		stock, _ := cmd.Flags().GetInt("stock")
		sku, _ := cmd.Flags().GetString("sku")

		a.catalog.Add(cmd.Context(), models.ProductDraft{
			Title:       title,
			Price:       price,
			Category:    category,
			Description: description,
			Stock:       stock,
			SKU:         sku,
		})
		return nil
	},
}

// shopstream products delete <id>
var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		a.catalog.FetchAll(cmd.Context())
		a.catalog.Delete(cmd.Context(), uint(id))
		return nil
	},
}

// shopstream products upload <file> — store a product image.
var productsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a product image and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		url, err := a.catalog.UploadImage(args[0], content)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}
