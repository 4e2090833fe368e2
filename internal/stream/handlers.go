package stream

import (
	"encoding/json"
	"net/http"

	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

// zoneFeature renders a contributive zone the way the API exposes it: as a
// GeoJSON feature whose properties carry the scalar fields plus the embedded
// infrastructures.
type zoneFeature struct {
	ID         uint                   `json:"id"`
	Type       string                 `json:"type"`
	Geometry   *geo.Polygon           `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

func zoneToFeature(z ContributiveZone) zoneFeature {
	return zoneFeature{
		ID:       z.ID,
		Type:     "Feature",
		Geometry: z.Geom,
		Properties: map[string]interface{}{
			"nom":                   z.Nom,
			"superficie":            z.Superficie,
			"etat_ravin":            z.EtatRavin,
			"description":           z.Description,
			"shapefile_id":          z.ShapefileID,
			"infrastructures":       z.Infrastructures,
			"infrastructures_count": len(z.Infrastructures),
			"created_at":            z.CreatedAt,
			"updated_at":            z.UpdatedAt,
		},
	}
}

func ListZones(w http.ResponseWriter, r *http.Request) {
	var zones []ContributiveZone
	if err := db.DB.Preload("Infrastructures").Order("nom").Find(&zones).Error; err != nil {
		writeDBError(w, err)
		return
	}

	features := make([]zoneFeature, 0, len(zones))
	for _, z := range zones {
		features = append(features, zoneToFeature(z))
	}
	writeJSON(w, http.StatusOK, features)
}

func GetZone(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var zone ContributiveZone
	if err := db.DB.Preload("Infrastructures").First(&zone, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "zone not found")
		return
	}
	writeJSON(w, http.StatusOK, zoneToFeature(zone))
}

func CreateZone(w http.ResponseWriter, r *http.Request) {
	var zone ContributiveZone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := zone.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zone.ID = 0
	if err := db.DB.Create(&zone).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, zoneToFeature(zone))
}

func UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var zone ContributiveZone
	if err := db.DB.First(&zone, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "zone not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := zone.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zone.ID = id
	if err := db.DB.Save(&zone).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zoneToFeature(zone))
}

func DeleteZone(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&ContributiveZone{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "zone not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListFunders(w http.ResponseWriter, r *http.Request) {
	var funders []Funder
	if err := db.DB.Preload("Finances").Order("nom").Find(&funders).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funders)
}

func GetFunder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var funder Funder
	if err := db.DB.Preload("Finances").First(&funder, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "funder not found")
		return
	}
	writeJSON(w, http.StatusOK, funder)
}

func CreateFunder(w http.ResponseWriter, r *http.Request) {
	var funder Funder
	if err := json.NewDecoder(r.Body).Decode(&funder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	funder.ID = 0
	if err := db.DB.Create(&funder).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, funder)
}

func UpdateFunder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var funder Funder
	if err := db.DB.First(&funder, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "funder not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&funder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	funder.ID = id
	if err := db.DB.Save(&funder).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funder)
}

func DeleteFunder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Funder{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "funder not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListInfrastructureTypes(w http.ResponseWriter, r *http.Request) {
	var types []InfrastructureType
	if err := db.DB.Order("nom").Find(&types).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func GetInfrastructureType(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var t InfrastructureType
	if err := db.DB.First(&t, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "infrastructure type not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func CreateInfrastructureType(w http.ResponseWriter, r *http.Request) {
	var t InfrastructureType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if t.Nom == "" {
		writeError(w, http.StatusBadRequest, "nom is required")
		return
	}

	t.ID = 0
	if err := db.DB.Create(&t).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func UpdateInfrastructureType(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var t InfrastructureType
	if err := db.DB.First(&t, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "infrastructure type not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t.ID = id
	if err := db.DB.Save(&t).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func DeleteInfrastructureType(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&InfrastructureType{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "infrastructure type not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListClients(w http.ResponseWriter, r *http.Request) {
	var clients []Client
	if err := db.DB.Order("nom").Find(&clients).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var client Client
	if err := db.DB.First(&client, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func CreateClient(w http.ResponseWriter, r *http.Request) {
	var client Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := client.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client.ID = 0
	if err := db.DB.Create(&client).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var client Client
	if err := db.DB.First(&client, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "client not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := client.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client.ID = id
	if err := db.DB.Save(&client).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Client{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "client not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListInfrastructures(w http.ResponseWriter, r *http.Request) {
	var infras []Infrastructure
	err := db.DB.
		Preload("TypeInfrastructure").
		Preload("Client").
		Preload("Finances").
		Preload("Inspections").
		Order("nom").
		Find(&infras).Error
	if err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infras)
}

func GetInfrastructure(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var infra Infrastructure
	err = db.DB.
		Preload("TypeInfrastructure").
		Preload("Client").
		Preload("Finances").
		Preload("Inspections").
		First(&infra, id).Error
	if err != nil {
		writeMessage(w, http.StatusNotFound, "infrastructure not found")
		return
	}
	writeJSON(w, http.StatusOK, infra)
}

func CreateInfrastructure(w http.ResponseWriter, r *http.Request) {
	var infra Infrastructure
	if err := json.NewDecoder(r.Body).Decode(&infra); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	infra.ID = 0
	if err := db.DB.Create(&infra).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, infra)
}

// UpdateInfrastructure decodes the body over the stored row, so an absent
// location field keeps the stored geometry and that geometry overwrites any
// latitude/longitude supplied alongside it. Moving a point therefore takes
// either a new location or an explicit "location": null with fresh scalars.
func UpdateInfrastructure(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var infra Infrastructure
	if err := db.DB.First(&infra, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "infrastructure not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&infra); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	infra.ID = id
	if err := db.DB.Save(&infra).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infra)
}

func DeleteInfrastructure(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Infrastructure{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "infrastructure not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListFundings(w http.ResponseWriter, r *http.Request) {
	var fundings []Funding
	if err := db.DB.Order("date_financement DESC").Find(&fundings).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fundings)
}

func GetFunding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var funding Funding
	if err := db.DB.First(&funding, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "funding not found")
		return
	}
	writeJSON(w, http.StatusOK, funding)
}

// CreateFunding relies on the store-level composite unique index on
// (bailleur, infrastructure) rather than a pre-check, so concurrent inserts
// of the same pair still surface exactly one Conflict.
func CreateFunding(w http.ResponseWriter, r *http.Request) {
	var funding Funding
	if err := json.NewDecoder(r.Body).Decode(&funding); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := funding.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	funding.ID = 0
	if err := db.DB.Create(&funding).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, funding)
}

func UpdateFunding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var funding Funding
	if err := db.DB.First(&funding, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "funding not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&funding); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := funding.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	funding.ID = id
	if err := db.DB.Save(&funding).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funding)
}

func DeleteFunding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Funding{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "funding not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ListInspections(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Order("date DESC")

	// Optional filter on the owning infrastructure.
	if infraID := r.URL.Query().Get("infrastructure"); infraID != "" {
		query = query.Where("infrastructure_id = ?", infraID)
	}

	var inspections []Inspection
	if err := query.Find(&inspections).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspections)
}

func GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var inspection Inspection
	if err := db.DB.First(&inspection, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "inspection not found")
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func CreateInspection(w http.ResponseWriter, r *http.Request) {
	var inspection Inspection
	if err := json.NewDecoder(r.Body).Decode(&inspection); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := inspection.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inspection.ID = 0
	if err := db.DB.Create(&inspection).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inspection)
}

func UpdateInspection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var inspection Inspection
	if err := db.DB.First(&inspection, id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "inspection not found")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&inspection); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := inspection.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inspection.ID = id
	if err := db.DB.Save(&inspection).Error; err != nil {
		writeDBError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func DeleteInspection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := db.DB.Delete(&Inspection{}, id)
	if res.Error != nil {
		writeDBError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "inspection not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
