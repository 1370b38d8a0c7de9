package districts

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/model"
)

// LoadShapefile reads district polygons from an ESRI shapefile. nameField is
// the DBF attribute carrying the district name; it is matched
// case-insensitively. Ring parts beyond the first per shape are treated as
// additional districts sharing the same name, matching multipart polygons.
func LoadShapefile(shpPath, nameField string) ([]model.District, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "districts: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("districts: shapefile has no %q field", nameField)
	}

	var out []model.District
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil || poly.NumParts == 0 {
			skipped++
			continue
		}

		for _, ring := range polygonRings(poly) {
			if len(ring) < 3 {
				continue
			}
			out = append(out, model.District{Name: name, Ring: ring})
		}
	}

	if skipped > 0 {
		zap.L().Debug("districts: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return out, nil
}

// polygonRings splits a shapefile polygon into its parts as coordinate rings,
// dropping the duplicated closing vertex when present.
func polygonRings(p *shp.Polygon) [][]geom.Coord {
	var rings [][]geom.Coord
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		coords := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			coords = append(coords, geom.Coord{p.Points[j].X, p.Points[j].Y})
		}

		if len(coords) > 1 {
			first, last := coords[0], coords[len(coords)-1]
			if first[0] == last[0] && first[1] == last[1] {
				coords = coords[:len(coords)-1]
			}
		}

		rings = append(rings, coords)
	}
	return rings
}
