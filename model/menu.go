package model

import (
	"encoding/json"
	"time"
)

// Menu is a sellable item as stored by the reference menu API.
type Menu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Cost      float64   `json:"cost" gorm:"not null"`
	Image     string    `json:"image" gorm:"size:512"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON reports an empty image as null.
func (m Menu) MarshalJSON() ([]byte, error) {
	type alias Menu
	var image *string
	if m.Image != "" {
		image = &m.Image
	}
	return json.Marshal(struct {
		alias
		Image *string `json:"image"`
	}{alias: alias(m), Image: image})
}
