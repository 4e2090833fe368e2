package shapefile

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
)

// buildShapefile writes a one-record point shapefile named base.shp (plus its
// sidecars) under dir.
func buildShapefile(t *testing.T, dir, base string) {
	t.Helper()

	w, err := shp.Create(filepath.Join(dir, base+".shp"), shp.POINT)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}
	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})
	w.Write(&shp.Point{X: 15.31, Y: -4.32})
	w.WriteAttribute(0, 0, "Bassin A")
	w.Close()
}

// zipDir packs every regular file under dir into an in-memory zip archive.
func zipDir(t *testing.T, dir string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		t.Fatalf("zip dir: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return &buf
}

func TestSaveArchive(t *testing.T) {
	t.Setenv("SHAPEFILE_DIR", t.TempDir())

	srcDir := t.TempDir()
	buildShapefile(t, srcDir, "parcelles")
	buf := zipDir(t, srcDir)

	storedPath, members, err := saveArchive(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(storedPath); err != nil {
		t.Errorf("stored archive missing: %v", err)
	}
	if !strings.HasSuffix(storedPath, ".zip") {
		t.Errorf("expected .zip suffix, got %s", storedPath)
	}

	want := map[string]bool{"parcelles.shp": true, "parcelles.shx": true, "parcelles.dbf": true}
	for _, m := range members {
		delete(want, m)
	}
	if len(want) != 0 {
		t.Errorf("members missing from listing: %v (got %v)", want, members)
	}
}

func TestSaveArchive_RejectsCorruptZip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHAPEFILE_DIR", dir)

	_, _, err := saveArchive(strings.NewReader("this is not a zip archive"))
	if err == nil {
		t.Fatal("expected error for corrupt archive")
	}

	// The broken upload must not be left on disk.
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read upload dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty upload dir, found %d entries", len(entries))
	}
}

func TestExtractAndFindShapeFile(t *testing.T) {
	t.Setenv("SHAPEFILE_DIR", t.TempDir())

	srcDir := t.TempDir()
	nested := filepath.Join(srcDir, "data")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	buildShapefile(t, nested, "parcelles")

	storedPath, _, err := saveArchive(zipDir(t, srcDir))
	if err != nil {
		t.Fatalf("save archive: %v", err)
	}

	destDir, cleanup, err := extractArchive(storedPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	defer cleanup()

	shpPath, err := findShapeFile(destDir)
	if err != nil {
		t.Fatalf("find shapefile: %v", err)
	}
	if filepath.Base(shpPath) != "parcelles.shp" {
		t.Errorf("expected parcelles.shp, got %s", shpPath)
	}

	cleanup()
	if _, err := os.Stat(destDir); !os.IsNotExist(err) {
		t.Error("expected extraction dir removed after cleanup")
	}
}

// TestFindShapeFile_LexicalOrder verifies the pick is deterministic when an
// archive carries several shape files.
func TestFindShapeFile_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	buildShapefile(t, dir, "zz_last")
	buildShapefile(t, dir, "aa_first")

	shpPath, err := findShapeFile(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(shpPath) != "aa_first.shp" {
		t.Errorf("expected aa_first.shp, got %s", filepath.Base(shpPath))
	}
}

func TestFindShapeFile_NoShapeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := findShapeFile(dir)
	if !errors.Is(err, ErrNoShapeFile) {
		t.Errorf("expected ErrNoShapeFile, got %v", err)
	}
}

func TestFeatureData(t *testing.T) {
	t.Setenv("SHAPEFILE_DIR", t.TempDir())

	srcDir := t.TempDir()
	buildShapefile(t, srcDir, "parcelles")

	storedPath, members, err := saveArchive(zipDir(t, srcDir))
	if err != nil {
		t.Fatalf("save archive: %v", err)
	}

	rec := ShapefileUpload{StoredPath: storedPath, Members: members}
	bbox, fc, err := featureData(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bbox == nil {
		t.Fatal("expected a bounding box")
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if got := fc.Features[0].Properties["NAME"]; got != "Bassin A" {
		t.Errorf("expected NAME %q, got %v", "Bassin A", got)
	}
}

func TestFeatureData_ArchiveWithoutShape(t *testing.T) {
	t.Setenv("SHAPEFILE_DIR", t.TempDir())

	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	storedPath, _, err := saveArchive(zipDir(t, srcDir))
	if err != nil {
		t.Fatalf("save archive: %v", err)
	}

	_, _, err = featureData(ShapefileUpload{StoredPath: storedPath})
	if !errors.Is(err, ErrNoShapeFile) {
		t.Errorf("expected ErrNoShapeFile, got %v", err)
	}
}
