package shapefile

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

// ErrNoShapeFile marks an archive with no .shp member anywhere inside it.
var ErrNoShapeFile = errors.New("no .shp file found in archive")

func uploadDir() string {
	if dir := os.Getenv("SHAPEFILE_DIR"); dir != "" {
		return dir
	}
	return "uploads/shapefiles"
}

// saveArchive stores the uploaded zip under a unique name and returns its
// path plus the archive member list. The member listing doubles as a zip
// integrity check.
func saveArchive(src io.Reader) (string, []string, error) {
	dir := uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create upload dir: %w", err)
	}

	storedPath := filepath.Join(dir, uuid.NewString()+".zip")
	out, err := os.Create(storedPath)
	if err != nil {
		return "", nil, fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(storedPath)
		return "", nil, fmt.Errorf("write archive file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(storedPath)
		return "", nil, fmt.Errorf("close archive file: %w", err)
	}

	members, err := listMembers(storedPath)
	if err != nil {
		os.Remove(storedPath)
		return "", nil, err
	}

	return storedPath, members, nil
}

func listMembers(zipPath string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var members []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			members = append(members, f.Name)
		}
	}
	return members, nil
}

// extractArchive unpacks a stored zip into a per-request temporary directory.
// The returned cleanup must run on every exit path so concurrent requests
// never share extraction space and disk usage stays bounded.
func extractArchive(zipPath string) (string, func(), error) {
	destDir, err := os.MkdirTemp("", "shapefile-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(destDir) }

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Clean(f.Name))
		if rel, err := filepath.Rel(destDir, destPath); err != nil || strings.HasPrefix(rel, "..") {
			// Entry tries to escape the extraction dir, skip it.
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("create dir for %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			cleanup()
			return "", nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			cleanup()
			return "", nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			outFile.Close()
			rc.Close()
			cleanup()
			return "", nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		outFile.Close()
		rc.Close()
	}

	return destDir, cleanup, nil
}

// findShapeFile walks the extraction dir for the first .shp file. WalkDir
// visits entries in lexical order, so the pick is deterministic when an
// archive carries several shape files.
func findShapeFile(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".shp") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk extraction dir: %w", err)
	}
	if found == "" {
		return "", ErrNoShapeFile
	}
	return found, nil
}

// featureData re-extracts a stored archive and parses its shape file into a
// bounding box plus feature collection.
func featureData(rec ShapefileUpload) (*geo.BBox, *geojson.FeatureCollection, error) {
	destDir, cleanup, err := extractArchive(rec.StoredPath)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	shpPath, err := findShapeFile(destDir)
	if err != nil {
		return nil, nil, err
	}

	return geo.ReadFeatureCollection(shpPath)
}
