package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopstream",
	Short: "shopstream — storefront state layer CLI",
	Long:  "Shopstream mirrors a remote product catalog, cart, search and session locally. Use this CLI to run the development gateway and drive the stores from a terminal.",
}

func init() {
	// Gateway
	rootCmd.AddCommand(gatewayCmd)

	// Catalog
	rootCmd.AddCommand(productsCmd)

	// Cart
	rootCmd.AddCommand(cartCmd)

	// Search
	rootCmd.AddCommand(searchCmd)

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
