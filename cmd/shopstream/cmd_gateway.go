package main

import (
	"github.com/spf13/cobra"

	"shopstream/config"
	"shopstream/internal/devgateway"
	"shopstream/pkg/logger"
)

// shopstream gateway — run the embedded development gateway.
var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Run the development gateway (REST + realtime + graphql + metrics)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if _, err := logger.EnableMongo(); err != nil {
			logger.Warn("mongo log shipping disabled", "error", err)
		}

		srv, err := devgateway.New()
		if err != nil {
			return err
		}
		defer srv.Close()

		if seed, _ := cmd.Flags().GetBool("seed"); seed {
			if err := srv.Seed(); err != nil {
				return err
			}
			logger.Info("database seeded")
		}

		return srv.ListenAndServe()
	},
}

func init() {
	gatewayCmd.Flags().Bool("seed", false, "seed the catalog with starter products")
}
