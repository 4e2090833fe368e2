package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vick25/ceedd-stream-backend/internal/db"
	"gorm.io/gorm"
)

// Canonical photo attachment kinds. Incoming model names are normalized
// before matching, so "ZoneContributive", "contributive-zone" and
// "contributivezone" all resolve to KindZone.
const (
	KindInfrastructure = "infrastructure"
	KindFunder         = "funder"
	KindZone           = "contributive_zone"
	KindInspection     = "inspection"
)

var kindAliases = map[string]string{
	"infrastructure":   KindInfrastructure,
	"funder":           KindFunder,
	"bailleur":         KindFunder,
	"contributivezone": KindZone,
	"zonecontributive": KindZone,
	"zone":             KindZone,
	"inspection":       KindInspection,
}

// NormalizeKind maps a caller-supplied model name onto a canonical attachment
// kind. Matching is case-insensitive and ignores separators.
func NormalizeKind(modelName string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(modelName))
	cleaned = strings.NewReplacer("-", "", "_", "").Replace(cleaned)
	kind, ok := kindAliases[cleaned]
	return kind, ok
}

// RelatedObject is the tagged summary of a photo's attachment target.
type RelatedObject struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
	Str  string `json:"str"`
}

// photoOut is a Photo plus its resolved target. A dangling reference (target
// deleted out-of-band) yields a null related_object, never an error.
type photoOut struct {
	Photo
	RelatedObject *RelatedObject `json:"related_object"`
}

// resolveTarget looks up the row a (kind, id) pair points at. A missing row
// reports found=false with a nil error; only store failures surface as errors.
func resolveTarget(kind string, id uint) (label string, found bool, err error) {
	var lookupErr error
	switch kind {
	case KindInfrastructure:
		var target Infrastructure
		if lookupErr = db.DB.First(&target, id).Error; lookupErr == nil {
			return target.Label(), true, nil
		}
	case KindFunder:
		var target Funder
		if lookupErr = db.DB.First(&target, id).Error; lookupErr == nil {
			return target.Label(), true, nil
		}
	case KindZone:
		var target ContributiveZone
		if lookupErr = db.DB.First(&target, id).Error; lookupErr == nil {
			return target.Label(), true, nil
		}
	case KindInspection:
		var target Inspection
		if lookupErr = db.DB.First(&target, id).Error; lookupErr == nil {
			return target.Label(), true, nil
		}
	default:
		return "", false, nil
	}

	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	return "", false, lookupErr
}

func resolvePhoto(p Photo) (photoOut, error) {
	out := photoOut{Photo: p}
	label, found, err := resolveTarget(p.ContentType, p.ObjectID)
	if err != nil {
		return out, err
	}
	if found {
		out.RelatedObject = &RelatedObject{Type: p.ContentType, ID: p.ObjectID, Str: label}
	}
	return out, nil
}

func resolvePhotos(photos []Photo) ([]photoOut, error) {
	outs := make([]photoOut, 0, len(photos))
	for _, p := range photos {
		out, err := resolvePhoto(p)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func ListPhotos(w http.ResponseWriter, r *http.Request) {
	var photos []Photo
	if err := db.DB.Order("created_at DESC").Find(&photos).Error; err != nil {
		writeDBError(w, err)
		return
	}

	outs, err := resolvePhotos(photos)
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outs)
}

func GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var photo Photo
	if err := db.DB.First(&photo, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "photo not found")
		return
	}

	out, err := resolvePhoto(photo)
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type photoInput struct {
	ModelName   string `json:"model_name"`
	ObjectID    uint   `json:"object_id"`
	URL         string `json:"url"`
	Description string `json:"description"`
	DatePrise   *Date  `json:"date_prise"`
}

// CreatePhoto attaches a photo to one row of one allowed entity table.
// Validation order: the kind must be on the allow-list, then the target row
// must exist, then the normalized pair is stored.
func CreatePhoto(w http.ResponseWriter, r *http.Request) {
	var input photoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if input.ModelName == "" || input.ObjectID == 0 {
		writeError(w, http.StatusBadRequest, "model_name and object_id are required")
		return
	}
	if input.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	kind, ok := NormalizeKind(input.ModelName)
	if !ok {
		writeError(w, http.StatusBadRequest, "model '"+input.ModelName+"' is not allowed for photo association")
		return
	}

	_, found, err := resolveTarget(kind, input.ObjectID)
	if err != nil {
		writeDBError(w, err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "referenced object does not exist")
		return
	}

	photo := Photo{
		ContentType: kind,
		ObjectID:    input.ObjectID,
		URL:         input.URL,
		Description: input.Description,
		DatePrise:   input.DatePrise,
	}
	if err := db.DB.Create(&photo).Error; err != nil {
		writeDBError(w, err)
		return
	}

	out, err := resolvePhoto(photo)
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// UpdatePhoto edits the photo's own fields. The attachment pair is read-only
// after creation; re-targeting means deleting and re-attaching.
func UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var photo Photo
	if err := db.DB.First(&photo, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "photo not found")
		return
	}

	var input photoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if input.URL != "" {
		photo.URL = input.URL
	}
	photo.Description = input.Description
	if input.DatePrise != nil {
		photo.DatePrise = input.DatePrise
	}

	if err := db.DB.Save(&photo).Error; err != nil {
		writeDBError(w, err)
		return
	}

	out, err := resolvePhoto(photo)
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Photo{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PhotosByObject lists the photos attached to one target row:
// GET /photos/by_object?model_name=&object_id=
func PhotosByObject(w http.ResponseWriter, r *http.Request) {
	modelName := r.URL.Query().Get("model_name")
	objectIDParam := r.URL.Query().Get("object_id")
	if modelName == "" || objectIDParam == "" {
		writeError(w, http.StatusBadRequest, "model_name and object_id query parameters are required")
		return
	}

	objectID, err := strconv.ParseUint(objectIDParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "object_id must be an integer")
		return
	}

	kind, ok := NormalizeKind(modelName)
	if !ok {
		writeMessage(w, http.StatusNotFound, "model '"+modelName+"' is not allowed for photo association")
		return
	}

	_, found, err := resolveTarget(kind, uint(objectID))
	if err != nil {
		writeDBError(w, err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "referenced object does not exist")
		return
	}

	var photos []Photo
	if err := db.DB.Where("content_type = ? AND object_id = ?", kind, objectID).
		Order("created_at DESC").Find(&photos).Error; err != nil {
		writeDBError(w, err)
		return
	}

	outs, err := resolvePhotos(photos)
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outs)
}
