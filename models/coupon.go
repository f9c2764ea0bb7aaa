package models

import "time"

type Coupon struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Expire   time.Time `gorm:"not null" json:"expire"`
	Discount float64   `gorm:"not null" json:"discount"` // percent, 0-100
	CreatedAt time.Time
	UpdatedAt time.Time
}
