package geo

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// BBox is a [minX, minY, maxX, maxY] envelope in EPSG:4326 degrees.
type BBox [4]float64

// ReadFeatureCollection parses a shapefile into a GeoJSON feature collection,
// one feature per shape record with the DBF attributes carried verbatim, plus
// the file-level bounding box.
func ReadFeatureCollection(shpPath string) (*BBox, *geojson.FeatureCollection, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open shapefile %s: %w", shpPath, err)
	}
	defer reader.Close()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for reader.Next() {
		_, shape := reader.Shape()

		props := make(map[string]interface{}, len(names))
		for i, name := range names {
			props[name] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   ShapeToGeom(shape),
			Properties: props,
		})
	}

	// Next returns false on both clean exhaustion and read failure; only the
	// error check tells a truncated file apart from a fully parsed one.
	if err := reader.Err(); err != nil {
		return nil, nil, fmt.Errorf("read shapefile %s: %w", shpPath, err)
	}

	box := reader.BBox()
	bbox := BBox{box.MinX, box.MinY, box.MaxX, box.MaxY}
	return &bbox, fc, nil
}
