package menu

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const CurrentMenuItemSchemaVersion = 1

// MenuItem is a drink or food item offered for ordering. Ordering only
// references these read-only: checkout snapshots name and price into the
// order lines, so later menu edits never touch placed orders.
type MenuItem struct {
	ID            uuid.UUID            `json:"id" bson:"_id"`
	ShortCode     string               `json:"short_code" bson:"short_code"`
	Name          string               `json:"name" bson:"name"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	Category      string               `json:"category" bson:"category"`
	BasePrice     float64              `json:"base_price" bson:"base_price"`
	Active        bool                 `json:"active" bson:"active"`
	Sizes         []SizeOption         `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Temperatures  []string             `json:"temperatures,omitempty" bson:"temperatures,omitempty"`
	Customization []CustomizationGroup `json:"customization,omitempty" bson:"customization,omitempty"`
	ImageURL      string               `json:"image_url,omitempty" bson:"image_url,omitempty"`
	DisplayOrder  int                  `json:"display_order" bson:"display_order"`
	SchemaVersion int                  `json:"schema_version" bson:"schema_version"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// SizeOption is a selectable cup size with its price delta against the
// item's base price.
type SizeOption struct {
	Name       string  `json:"name" bson:"name"`
	PriceDelta float64 `json:"price_delta" bson:"price_delta"`
}

// CustomizationGroup is one subcategory of choices (milk, syrup, shots)
// a customer picks a single option from.
type CustomizationGroup struct {
	Name    string   `json:"name" bson:"name"`
	Options []string `json:"options" bson:"options"`
}

func (m *MenuItem) GetID() uuid.UUID {
	return m.ID
}

func (m *MenuItem) SetID(id uuid.UUID) {
	m.ID = id
}

func (m *MenuItem) ResourceType() string {
	return "menu-item"
}

func (m *MenuItem) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

func (m *MenuItem) BeforeCreate() {
	m.EnsureID()
	m.SchemaVersion = CurrentMenuItemSchemaVersion
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
}

func (m *MenuItem) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// PriceFor resolves the unit price for a size selection. An unknown or
// empty size falls back to the base price.
func (m *MenuItem) PriceFor(size string) float64 {
	for _, option := range m.Sizes {
		if option.Name == size {
			return m.BasePrice + option.PriceDelta
		}
	}
	return m.BasePrice
}
