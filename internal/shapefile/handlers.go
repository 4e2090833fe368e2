package shapefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vick25/ceedd-stream-backend/internal/db"
)

const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func urlID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// UploadHandler accepts a multipart zip archive and registers it:
// POST /shapefiles (file + nom + description). The upload is all-or-nothing:
// a bad archive or one with no .shp inside leaves neither a record nor a
// stored file behind.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form upload required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file supplied")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, "file must be a .zip archive")
		return
	}

	storedPath, members, err := saveArchive(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid archive: "+err.Error())
		return
	}

	// Reject archives with no shape file before anything is persisted.
	destDir, cleanup, err := extractArchive(storedPath)
	if err != nil {
		os.Remove(storedPath)
		writeError(w, http.StatusBadRequest, "invalid archive: "+err.Error())
		return
	}
	_, shpErr := findShapeFile(destDir)
	cleanup()
	if shpErr != nil {
		os.Remove(storedPath)
		writeError(w, http.StatusBadRequest, shpErr.Error())
		return
	}

	nom := strings.TrimSpace(r.FormValue("nom"))
	if nom == "" {
		nom = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}

	rec := ShapefileUpload{
		Nom:         nom,
		Description: r.FormValue("description"),
		StoredPath:  storedPath,
		Members:     members,
	}
	if err := db.DB.Create(&rec).Error; err != nil {
		os.Remove(storedPath)
		writeError(w, http.StatusInternalServerError, "failed to save record: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// ListHandler returns every stored archive with its bounding box and feature
// collection. A record whose archive can no longer be read reports null for
// both instead of failing the whole batch.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	var recs []ShapefileUpload
	if err := db.DB.Order("uploaded_at DESC").Find(&recs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}

	entries := make([]map[string]interface{}, 0, len(recs))
	for _, rec := range recs {
		entry := map[string]interface{}{
			"id":                 rec.ID,
			"nom":                rec.Nom,
			"description":        rec.Description,
			"members":            rec.Members,
			"uploaded_at":        rec.UploadedAt,
			"bbox":               nil,
			"feature_collection": nil,
		}

		if b, err := featureJSON(r.Context(), rec); err != nil {
			log.Printf("[shapefile] record %d unreadable: %v", rec.ID, err)
		} else {
			var payload featurePayload
			if err := json.Unmarshal(b, &payload); err == nil {
				entry["bbox"] = payload.Bbox
				entry["feature_collection"] = payload.FeatureCollection
			}
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, entries)
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var rec ShapefileUpload
	if err := db.DB.First(&rec, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "shapefile not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ExportHandler re-parses a stored archive and streams the GeoJSON feature
// collection as a download named after the record:
// GET /shapefiles/{id}/export
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var rec ShapefileUpload
	if err := db.DB.First(&rec, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "shapefile not found")
		return
	}

	_, fc, err := featureData(rec)
	if err != nil {
		if errors.Is(err, ErrNoShapeFile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read archive: "+err.Error())
		return
	}

	body, err := json.Marshal(fc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode feature collection")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Nom+".geojson"))
	w.Write(body)
}

// UpdateHandler edits the record's metadata only; the stored archive is
// immutable after upload.
func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var rec ShapefileUpload
	if err := db.DB.First(&rec, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "shapefile not found")
		return
	}

	var input struct {
		Nom         *string `json:"nom"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if input.Nom != nil && *input.Nom != "" {
		rec.Nom = *input.Nom
	}
	if input.Description != nil {
		rec.Description = *input.Description
	}

	if err := db.DB.Save(&rec).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var rec ShapefileUpload
	if err := db.DB.First(&rec, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "shapefile not found")
		return
	}

	if err := db.DB.Delete(&rec).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}

	if rec.StoredPath != "" {
		if err := os.Remove(rec.StoredPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[shapefile] failed to remove stored archive %s: %v", rec.StoredPath, err)
		}
	}
	dropCached(r.Context(), rec.ID)

	w.WriteHeader(http.StatusNoContent)
}
