package models

import "time"

// Product represents a catalog item.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:text;not null" validate:"required"`
	Price        float64   `json:"price" gorm:"not null;check:price > 0" validate:"gt=0"`
	Availability bool      `json:"availability" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
