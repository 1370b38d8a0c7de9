package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("status"); err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		cmd.Printf("laundries: %d\n", stats.TotalBusinesses)
		if stats.AvgPrice != nil {
			cmd.Printf("price/kg:  min %d  avg %.0f  max %d\n",
				*stats.MinPrice, *stats.AvgPrice, *stats.MaxPrice)
		} else {
			cmd.Println("price/kg:  no data")
		}
		if stats.AvgSpeedDays != nil {
			cmd.Printf("speed:     min %.1fd  avg %.1fd  max %.1fd\n",
				*stats.MinSpeedDays, *stats.AvgSpeedDays, *stats.MaxSpeedDays)
		} else {
			cmd.Println("speed:     no data")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(statusCmd)
}
