package models

import "time"

// CustomerAccount is a login identity. Its lifecycle is independent from
// Customer: CustomerID is nullable and an account may exist unlinked.
// Password always holds a bcrypt hash, never the plaintext.
type CustomerAccount struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	CustomerID *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
