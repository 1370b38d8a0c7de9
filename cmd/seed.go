package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/seed"
)

var (
	seedFile        string
	seedReplace     bool
	seedConcurrency int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the laundry dataset into the store",
	Long:  "Inserts the bundled YAML dataset. A store that already has rows is left untouched unless --replace is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("seed"); err != nil {
			return err
		}

		path := seedFile
		if path == "" {
			path = cfg.Seed.Path
		}

		ds, err := seed.LoadFile(path)
		if err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		res, err := seed.Run(cmd.Context(), st, ds, seed.Options{
			Replace:     seedReplace,
			Concurrency: seedConcurrency,
		})
		if err != nil {
			return err
		}

		if res.Skipped {
			cmd.Println("store already seeded; use --replace to reload")
			return nil
		}
		cmd.Printf("seeded %d laundries (%d failed)\n", res.Inserted, res.Failed)
		if res.Failed > 0 {
			zap.L().Warn("some rows failed validation", zap.Int("failed", res.Failed))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "dataset path (default from config)")
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "drop existing rows before seeding")
	seedCmd.Flags().IntVar(&seedConcurrency, "concurrency", 4, "insert workers")
	rootCmd.AddCommand(seedCmd)
}
