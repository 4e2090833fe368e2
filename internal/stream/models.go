package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/vick25/ceedd-stream-backend/internal/geo"
	"gorm.io/gorm"
)

type ContributiveZone struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Nom             string           `json:"nom"`
	Superficie      *float64         `json:"superficie"`
	EtatRavin       string           `gorm:"size:50" json:"etat_ravin"`
	Description     string           `json:"description"`
	Geom            *geo.Polygon     `gorm:"type:geometry(Polygon,4326)" json:"geom"`
	ShapefileID     *uint            `json:"shapefile_id"`
	Infrastructures []Infrastructure `gorm:"foreignKey:ZoneID" json:"infrastructures,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type Funder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nom       string    `json:"nom"`
	Sigle     *string   `gorm:"size:50" json:"sigle"`
	Finances  []Funding `gorm:"foreignKey:FunderID" json:"finances,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InfrastructureType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"uniqueIndex" json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nom       string    `json:"nom"`
	Postnom   string    `json:"postnom"`
	Prenom    string    `json:"prenom"`
	Sexe      string    `gorm:"size:1" json:"sexe"`
	Avenue    string    `json:"avenue"`
	Quartier  string    `json:"quartier"`
	Numero    *int      `json:"numero"`
	Telephone string    `gorm:"size:20" json:"telephone"`
	Email     string    `json:"email"`
	Commune   string    `json:"commune"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Infrastructure struct {
	ID                   uint                `gorm:"primaryKey" json:"id"`
	Nom                  string              `json:"nom"`
	Capacite             *float64            `json:"capacite"`
	Unite                string              `gorm:"size:20" json:"unite"`
	DateConstruction     *Date               `gorm:"type:date" json:"date_construction"`
	Location             *geo.Point          `gorm:"type:geometry(Point,4326)" json:"location"`
	Latitude             *float64            `json:"latitude"`
	Longitude            *float64            `json:"longitude"`
	TypeInfrastructureID *uint               `json:"type_infrastructure_id"`
	ClientID             *uint               `json:"client_id"`
	ZoneID               *uint               `json:"zone_id"`
	TypeInfrastructure   *InfrastructureType `gorm:"foreignKey:TypeInfrastructureID;constraint:OnDelete:SET NULL" json:"type_infrastructure,omitempty"`
	Client               *Client             `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	Zone                 *ContributiveZone   `gorm:"foreignKey:ZoneID;constraint:OnDelete:SET NULL" json:"-"`
	Finances             []Funding           `gorm:"foreignKey:InfrastructureID" json:"infrastructure_finances,omitempty"`
	Inspections          []Inspection        `gorm:"foreignKey:InfrastructureID" json:"inspections,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// BeforeSave keeps the point geometry and the redundant latitude/longitude
// scalars consistent inside the same transaction as the rest of the write.
// A supplied geometry always wins over supplied scalars.
func (i *Infrastructure) BeforeSave(tx *gorm.DB) error {
	if i.Location != nil && i.Location.Point != nil {
		lat := i.Location.Y()
		lon := i.Location.X()
		i.Latitude = &lat
		i.Longitude = &lon
		return nil
	}
	if i.Latitude != nil && i.Longitude != nil {
		i.Location = geo.NewPoint(*i.Longitude, *i.Latitude)
	}
	return nil
}

type Funding struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	FunderID         uint            `gorm:"not null;index:uniq_funder_infrastructure,unique" json:"bailleur"`
	InfrastructureID uint            `gorm:"not null;index:uniq_funder_infrastructure,unique" json:"infrastructure"`
	Funder           *Funder         `gorm:"foreignKey:FunderID;constraint:OnDelete:CASCADE" json:"-"`
	Infra            *Infrastructure `gorm:"foreignKey:InfrastructureID;constraint:OnDelete:CASCADE" json:"-"`
	DateFinancement  *time.Time      `json:"date_financement"`
	Montant          *float64        `json:"montant"`
	UniteMonnaie     string          `gorm:"size:10;default:'Fc'" json:"unite_monnaie"`
}

type Inspection struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	InfrastructureID uint            `gorm:"not null" json:"infrastructure"`
	Infra            *Infrastructure `gorm:"foreignKey:InfrastructureID;constraint:OnDelete:CASCADE" json:"-"`
	Date             *time.Time      `json:"date"`
	Etat             string          `gorm:"size:50;default:'bon'" json:"etat"`
	Inspecteur       string          `json:"inspecteur"`
	Commentaire      string          `json:"commentaire"`
	ProchainControle *time.Time      `json:"prochain_controle"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContentType string    `gorm:"size:50;index:idx_photos_target" json:"content_type"`
	ObjectID    uint      `gorm:"index:idx_photos_target" json:"object_id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	DatePrise   *Date     `gorm:"type:date" json:"date_prise"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ContributiveZone) TableName() string   { return "stream.zones_contributives" }
func (Funder) TableName() string             { return "stream.bailleurs" }
func (InfrastructureType) TableName() string { return "stream.types_infrastructure" }
func (Client) TableName() string             { return "stream.clients" }
func (Infrastructure) TableName() string     { return "stream.infrastructures" }
func (Funding) TableName() string            { return "stream.finances" }
func (Inspection) TableName() string         { return "stream.inspections" }
func (Photo) TableName() string              { return "stream.photos" }

// Label renders the human-readable identity used when a photo attachment is
// resolved back to its target.
func (z ContributiveZone) Label() string { return z.Nom }

func (f Funder) Label() string { return f.Nom }

func (c Client) Label() string { return strings.TrimSpace(c.Prenom + " " + c.Nom) }

func (i Infrastructure) Label() string {
	if i.Nom != "" {
		return i.Nom
	}
	return fmt.Sprintf("Infrastructure %d", i.ID)
}

func (ins Inspection) Label() string { return fmt.Sprintf("Inspection %d", ins.ID) }

func oneOf(value string, allowed ...string) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (z *ContributiveZone) Validate() error {
	if !oneOf(z.EtatRavin, "actif", "stable") {
		return fmt.Errorf("etat_ravin must be one of actif, stable")
	}
	return nil
}

func (c *Client) Validate() error {
	if !oneOf(c.Sexe, "M", "F") {
		return fmt.Errorf("sexe must be M or F")
	}
	return nil
}

func (f *Funding) Validate() error {
	if f.FunderID == 0 || f.InfrastructureID == 0 {
		return fmt.Errorf("bailleur and infrastructure are required")
	}
	if !oneOf(f.UniteMonnaie, "Fc", "$", "€") {
		return fmt.Errorf("unite_monnaie must be one of Fc, $, €")
	}
	return nil
}

func (ins *Inspection) Validate() error {
	if ins.InfrastructureID == 0 {
		return fmt.Errorf("infrastructure is required")
	}
	if !oneOf(ins.Etat, "bon", "moyen", "mauvais") {
		return fmt.Errorf("etat must be one of bon, moyen, mauvais")
	}
	return nil
}
