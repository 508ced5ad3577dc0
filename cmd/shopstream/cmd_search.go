package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shopstream/app/store"
)

// shopstream search <query>
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by title or category",
	Args:  cobra.MinimumNArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootAuthed(cmd.Context())
		if err != nil {
			return err
		}

		recent, _ := cmd.Flags().GetBool("recent")
		clear, _ := cmd.Flags().GetBool("clear-recent")

		switch {
		case clear:
			a.search.ClearRecent()
			return nil
		case recent:
			for _, term := range a.search.Recent() {
				fmt.Println(term)
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("a query is required (or use --recent)")
		}
		query := args[0]

		a.catalog.FetchAll(cmd.Context())
		results := store.Match(a.catalog.Products(), query)
		a.search.AddRecent(query)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCATEGORY")
		for _, p := range results {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", p.ID, p.Title, p.Price, p.Category)
		}
		return w.Flush()
	},
}

func init() {
	searchCmd.Flags().Bool("recent", false, "print recent searches")
	searchCmd.Flags().Bool("clear-recent", false, "clear recent searches")
}
