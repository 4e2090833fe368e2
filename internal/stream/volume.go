package stream

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/utils"
	"gorm.io/gorm"
)

// VolumeHandler sums infrastructure capacity filtered by the owning client's
// address attributes: GET /infrastructures/volume?avenue=&quartier=&commune=
// Supplied filters compose with AND; matching is a case-insensitive substring.
func VolumeHandler(w http.ResponseWriter, r *http.Request) {
	build := func() *gorm.DB {
		q := db.DB.Model(&Infrastructure{}).
			Joins("LEFT JOIN stream.clients ON stream.clients.id = stream.infrastructures.client_id")
		for _, col := range []string{"avenue", "quartier", "commune"} {
			if v := utils.NormalizeQuery(r.URL.Query().Get(col)); v != "" {
				q = q.Where("stream.clients."+col+" ILIKE ?", "%"+v+"%")
			}
		}
		return q
	}

	var count int64
	if err := build().Count(&count).Error; err != nil {
		writeDBError(w, err)
		return
	}
	if count == 0 {
		writeMessage(w, http.StatusNotFound, "no infrastructure matches the given address filters")
		return
	}

	var total sql.NullFloat64
	row := build().Select("SUM(stream.infrastructures.capacite)").Row()
	if err := row.Scan(&total); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"total_volume": nullableFloat(total)})
}

// dateFilter is the parsed form of the volume_by_date query parameters.
type dateFilter struct {
	year      *int
	month     *int
	trimester *int
	semester  *int
	from      *Date
	to        *Date
}

// trimesterMonths maps a trimester to its inclusive month window.
func trimesterMonths(t int) (int, int) {
	return 3*t - 2, 3 * t
}

func parseDateFilter(q url.Values) (dateFilter, error) {
	var f dateFilter

	parseInt := func(name string, lo, hi int) (*int, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", name)
		}
		if n < lo || n > hi {
			return nil, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
		}
		return &n, nil
	}

	var err error
	if f.year, err = parseInt("year", 1, 9999); err != nil {
		return f, err
	}
	if f.month, err = parseInt("month", 1, 12); err != nil {
		return f, err
	}
	if f.trimester, err = parseInt("trimester", 1, 4); err != nil {
		return f, err
	}
	if f.semester, err = parseInt("semester", 1, 2); err != nil {
		return f, err
	}

	if raw := q.Get("date_from"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return f, fmt.Errorf("date_from: %s", err.Error())
		}
		f.from = &d
	}
	if raw := q.Get("date_to"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return f, fmt.Errorf("date_to: %s", err.Error())
		}
		f.to = &d
	}

	return f, nil
}

// apply adds the filter's predicates to an infrastructures query. All
// supplied buckets and bounds compose with AND.
func (f dateFilter) apply(q *gorm.DB) *gorm.DB {
	if f.year != nil {
		q = q.Where("EXTRACT(YEAR FROM date_construction) = ?", *f.year)
	}
	if f.month != nil {
		q = q.Where("EXTRACT(MONTH FROM date_construction) = ?", *f.month)
	}
	if f.trimester != nil {
		lo, hi := trimesterMonths(*f.trimester)
		q = q.Where("EXTRACT(MONTH FROM date_construction) BETWEEN ? AND ?", lo, hi)
	}
	if f.semester != nil {
		if *f.semester == 1 {
			q = q.Where("EXTRACT(MONTH FROM date_construction) <= 6")
		} else {
			q = q.Where("EXTRACT(MONTH FROM date_construction) >= 7")
		}
	}
	if f.from != nil {
		q = q.Where("date_construction >= ?", f.from.Time)
	}
	if f.to != nil {
		q = q.Where("date_construction <= ?", f.to.Time)
	}
	return q
}

// VolumeByDateHandler sums infrastructure capacity over construction-date
// buckets: GET /infrastructures/volume_by_date?year=&month=&trimester=&semester=&date_from=&date_to=
//
// An entirely empty infrastructures table is a 404 before any filter is even
// looked at; a nonempty table filtered down to zero rows is a success with a
// null sum.
func VolumeByDateHandler(w http.ResponseWriter, r *http.Request) {
	var count int64
	if err := db.DB.Model(&Infrastructure{}).Count(&count).Error; err != nil {
		writeDBError(w, err)
		return
	}
	if count == 0 {
		writeMessage(w, http.StatusNotFound, "no infrastructure records exist")
		return
	}

	filter, err := parseDateFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var total sql.NullFloat64
	row := filter.apply(db.DB.Model(&Infrastructure{})).Select("SUM(capacite)").Row()
	if err := row.Scan(&total); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"total_volume": nullableFloat(total)})
}

func nullableFloat(v sql.NullFloat64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
