package geo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	geomlib "github.com/twpayne/go-geom"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

// writePointShapefile builds a two-record point shapefile with one NAME
// attribute under dir and returns its path.
func writePointShapefile(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "points.shp")
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}

	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})

	w.Write(&shp.Point{X: 15.31, Y: -4.32})
	w.WriteAttribute(0, 0, "Bassin A")
	w.Write(&shp.Point{X: 15.40, Y: -4.40})
	w.WriteAttribute(1, 0, "Bassin B")

	w.Close()
	return path
}

func TestReadFeatureCollection(t *testing.T) {
	path := writePointShapefile(t, t.TempDir())

	bbox, fc, err := geo.ReadFeatureCollection(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	pt, ok := first.Geometry.(*geomlib.Point)
	if !ok {
		t.Fatalf("expected point geometry, got %T", first.Geometry)
	}
	if pt.X() != 15.31 || pt.Y() != -4.32 {
		t.Errorf("wrong first coordinates: (%v, %v)", pt.X(), pt.Y())
	}
	if got := first.Properties["NAME"]; got != "Bassin A" {
		t.Errorf("expected NAME %q, got %v", "Bassin A", got)
	}

	if bbox == nil {
		t.Fatal("expected a bounding box")
	}
	if bbox[0] != 15.31 || bbox[1] != -4.40 || bbox[2] != 15.40 || bbox[3] != -4.32 {
		t.Errorf("wrong bbox: %v", *bbox)
	}
}

// TestReadFeatureCollection_TruncatedFile verifies that a shape file cut
// short mid-stream reports an error instead of a silently partial feature
// collection.
func TestReadFeatureCollection_TruncatedFile(t *testing.T) {
	path := writePointShapefile(t, t.TempDir())

	// Keep the 100-byte file header and the first 28-byte point record; the
	// header still declares both records, so the reader hits a short read.
	if err := os.Truncate(path, 128); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	if _, _, err := geo.ReadFeatureCollection(path); err == nil {
		t.Error("expected error for truncated shape file")
	}
}

func TestReadFeatureCollection_MissingFile(t *testing.T) {
	if _, _, err := geo.ReadFeatureCollection(filepath.Join(t.TempDir(), "nope.shp")); err == nil {
		t.Error("expected error for missing file")
	}
}
