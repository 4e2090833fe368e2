package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError reports a client mistake as {"error": ...}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMessage reports a lookup miss as {"message": ...}.
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

// writeDBError maps a store failure onto the API error surface. Uniqueness
// violations become 409 so callers can distinguish them from generic write
// failures.
func writeDBError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		writeError(w, http.StatusConflict, "duplicate record violates a uniqueness constraint")
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeMessage(w, http.StatusNotFound, "record not found")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		writeError(w, http.StatusBadRequest, "referenced record does not exist")
	default:
		writeError(w, http.StatusInternalServerError, "database error: "+err.Error())
	}
}
