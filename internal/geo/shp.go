package geo

import (
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
)

// ShapeToGeom converts a go-shp geometry to a go-geom geometry with SRID 4326.
// Returns nil for unsupported or empty shapes.
func ShapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(SRID)
	case *shp.PointZ:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(SRID)
	case *shp.PolyLine:
		return polyLineToMultiLineString(s)
	case *shp.Polygon:
		return polygonToMultiPolygon((*shp.PolyLine)(s))
	default:
		return nil
	}
}

func polyLineToMultiLineString(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY).SetSRID(SRID)
	for i := int32(0); i < pl.NumParts; i++ {
		coords := partCoords(pl, i)
		if len(coords) < 2 {
			continue
		}
		if err := mls.Push(geom.NewLineStringFlat(geom.XY, coords)); err != nil {
			continue
		}
	}
	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

// polygonToMultiPolygon treats every shapefile ring as its own polygon. Ring
// orientation (holes vs shells) is preserved verbatim in the output
// coordinates, which is what the export surface needs.
func polygonToMultiPolygon(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRID)
	for i := int32(0); i < pl.NumParts; i++ {
		coords := partCoords(pl, i)
		if len(coords) < 8 { // a closed ring needs at least 4 XY pairs
			continue
		}
		poly := geom.NewPolygonFlat(geom.XY, coords, []int{len(coords)})
		if err := mp.Push(poly); err != nil {
			continue
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// partCoords returns the flat XY coordinates of ring/part i.
func partCoords(pl *shp.PolyLine, i int32) []float64 {
	start := pl.Parts[i]
	end := int32(len(pl.Points))
	if i+1 < pl.NumParts {
		end = pl.Parts[i+1]
	}
	coords := make([]float64, 0, 2*(end-start))
	for j := start; j < end; j++ {
		coords = append(coords, pl.Points[j].X, pl.Points[j].Y)
	}
	return coords
}
