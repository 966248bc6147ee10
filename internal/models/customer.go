package models

import "time"

// Customer entity. Owns zero or more orders; accounts may point back at it.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:320" json:"email"`
	Phone     string    `gorm:"size:15" json:"phone"`
	Orders    []Order   `gorm:"foreignKey:CustomerID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
