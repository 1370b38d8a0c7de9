package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/directory"
	"github.com/laundrymap/laundrymap/internal/districts"
	"github.com/laundrymap/laundrymap/internal/export"
	"github.com/laundrymap/laundrymap/internal/model"
)

var (
	exportOutput    string
	exportFormat    string
	exportDistricts bool
	exportMetric    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the business table to XLSX or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		formatName := exportFormat
		if formatName == "" {
			formatName = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOutput)), ".")
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		businesses, err := st.ListBusinesses(cmd.Context())
		if err != nil {
			return err
		}

		var densities []model.DistrictDensity
		if exportDistricts {
			metric, err := model.ParseMetric(exportMetric)
			if err != nil {
				return err
			}
			ds, err := districts.NewFileCache(cfg.Districts.GeoJSONPath).Get()
			if err != nil {
				return err
			}
			densities = directory.Aggregate(businesses, ds, metric)
		}

		if err := export.Write(exportOutput, format, businesses, densities); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOutput),
			zap.Int("rows", len(businesses)),
		)
		cmd.Printf("exported %d laundries to %s\n", len(businesses), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "laundries.xlsx", "destination file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "xlsx or csv (default from the output extension)")
	exportCmd.Flags().BoolVar(&exportDistricts, "districts", false, "add a district density sheet (xlsx only)")
	exportCmd.Flags().StringVar(&exportMetric, "metric", "price", "district metric: price or speed")
	rootCmd.AddCommand(exportCmd)
}
