package shapefile

import (
	"time"

	"github.com/lib/pq"
)

// ShapefileUpload references the original uploaded archive, not the extracted
// shape file; extraction happens again on every read.
type ShapefileUpload struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Nom         string         `json:"nom"`
	Description string         `json:"description"`
	StoredPath  string         `json:"-"`
	Members     pq.StringArray `gorm:"type:text[]" json:"members"`
	UploadedAt  time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (ShapefileUpload) TableName() string { return "stream.shapefiles" }
