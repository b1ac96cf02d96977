package models

import "time"

// Product represents a product in the catalog. Prices are stored as integer
// cents. Timestamps are server-assigned: CreatedAt is set once at creation,
// UpdatedAt is refreshed on every successful update. There is no soft delete,
// so gorm.Model is deliberately not embedded.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"not null;type:varchar(100)" validate:"required,min=1,max=100"`
	Price     int64     `json:"price" gorm:"not null" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
