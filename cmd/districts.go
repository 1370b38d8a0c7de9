package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/districts"
	"github.com/laundrymap/laundrymap/internal/model"
)

var (
	districtsInput     string
	districtsOutput    string
	districtsNameField string
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "Manage district polygons",
}

var districtsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Normalize district polygons into the GeoJSON file served by the API",
	Long:  "Reads districts from a GeoJSON file or an ESRI shapefile and writes the normalized FeatureCollection the server loads.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("districts"); err != nil {
			return err
		}

		var (
			ds  []model.District
			err error
		)
		switch ext := strings.ToLower(filepath.Ext(districtsInput)); ext {
		case ".shp":
			ds, err = districts.LoadShapefile(districtsInput, districtsNameField)
		case ".json", ".geojson":
			ds, err = districts.LoadGeoJSON(districtsInput)
		default:
			return eris.Errorf("unsupported district source %q (want .shp, .json or .geojson)", ext)
		}
		if err != nil {
			return err
		}
		if len(ds) == 0 {
			return eris.Errorf("no usable districts in %s", districtsInput)
		}

		out := districtsOutput
		if out == "" {
			out = cfg.Districts.GeoJSONPath
		}
		if err := districts.WriteGeoJSON(out, ds); err != nil {
			return err
		}

		zap.L().Info("wrote district polygons",
			zap.Int("count", len(ds)),
			zap.String("path", out),
		)
		cmd.Printf("wrote %d districts to %s\n", len(ds), out)
		return nil
	},
}

func init() {
	districtsLoadCmd.Flags().StringVar(&districtsInput, "input", "", "source file (.shp, .json or .geojson)")
	districtsLoadCmd.Flags().StringVar(&districtsOutput, "output", "", "destination GeoJSON path (default from config)")
	districtsLoadCmd.Flags().StringVar(&districtsNameField, "name-field", "name", "DBF attribute holding the district name")
	_ = districtsLoadCmd.MarkFlagRequired("input")

	districtsCmd.AddCommand(districtsLoadCmd)
	rootCmd.AddCommand(districtsCmd)
}
