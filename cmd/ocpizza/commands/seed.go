package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ocpizza/ocpizza/internal/database"
	"github.com/ocpizza/ocpizza/internal/seed"
)

var seedSize int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with synthetic data",
	Long: `Populate every table with synthetic rows, parents before children.
--size controls how many rows the size-driven tables receive; lookup tables
(products, recipes, roles, ...) always get their full vocabulary. The schema
is migrated first so seed works on an empty database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, conf, err := openDatabase()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		size := seedSize
		if !cmd.Flags().Changed("size") && conf.SeedSize > 0 {
			size = conf.SeedSize
		}
		log.WithField("size", size).Info("Populating database")
		return seed.NewFeeder(db, size).Populate(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedSize, "size", "s", seed.DefaultSize,
		"number of synthetic rows per size-driven table")
	rootCmd.AddCommand(seedCmd)
}
