package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `json:"quantity"` // units available
	Sold        int     `json:"sold"`     // cumulative units sold
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
