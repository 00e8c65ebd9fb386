package main

import (
	"time"

	"storefront/internal/jobs"
	"storefront/internal/repositories"
	"storefront/pkg/database"

	"github.com/juju/clock"
	"github.com/spf13/cobra"
)

func newSweepCartsCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-carts",
		Short: "Delete abandoned carts once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.CartTTL
			}

			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			janitor := jobs.NewCartJanitor(repositories.NewCartRepo(pool), clock.WallClock, ttl, log)
			return janitor.Sweep(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "remove carts older than this (defaults to CART_TTL)")
	return cmd
}
