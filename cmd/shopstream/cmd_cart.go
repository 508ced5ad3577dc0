package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shopstream/app/models"
	"shopstream/pkg/collection"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the persisted cart",
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)

	cartAddCmd.Flags().Int("qty", 1, "quantity")
	cartAddCmd.Flags().String("size", "", "size variant")
}

// shopstream cart show
var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart lines and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSIZE\tQTY\tPRICE\tSUBTOTAL")
		for _, item := range a.cart.Items() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%.2f\n",
				item.Product.ID, item.Product.Title, item.SelectedSize,
				item.Quantity, item.Product.Price, item.Subtotal())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d items, total %.2f\n", a.cart.TotalItems(), a.cart.TotalPrice())
		return nil
	},
}

// shopstream cart add <product-id>
var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a catalog product to the cart",
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
		qty, _ := cmd.Flags().GetInt("qty")
		size, _ := cmd.Flags().GetString("size")

		a.catalog.FetchAll(cmd.Context())
		p, ok := collection.First(a.catalog.Products(), func(p models.Product) bool {
			return p.ID == uint(id)
		})
		if !ok {
			return fmt.Errorf("product %d is not in the catalog", id)
		}

		a.cart.AddItem(p, qty, size)
		fmt.Printf("added %q x%d\n", p.Title, qty)
		return nil
	},
}

// shopstream cart remove <product-id>
var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart (all size variants)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		a.cart.RemoveItem(uint(id))
		return nil
	},
}

// shopstream cart clear
var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		a.cart.Clear()
		return nil
	},
}
