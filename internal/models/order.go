package models

import "time"

// StatusPending is the status every order starts in unless the caller
// supplies one. Statuses are free-form non-empty strings on purpose; there is
// no transition graph.
const StatusPending = "Pending"

// Order header plus its product associations. The order_products join table
// has a composite (order_id, product_id) primary key, so the association is a
// set: the same product cannot appear twice on one order.
type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Date       time.Time `gorm:"not null" json:"date"`
	Status     string    `gorm:"size:50;not null;default:'Pending'" json:"status"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Products   []Product `gorm:"many2many:order_products" json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// ProductIDs derives the associated product identifiers from the loaded
// association set. Products must have been preloaded.
func (o *Order) ProductIDs() []uint {
	ids := make([]uint, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
