package models

import "time"

type Cart struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID string     `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	TotalCartPrice float64 `json:"total_cart_price"`
	// Set only by a successful coupon application; any cart mutation clears it.
	TotalPriceAfterDiscount *float64 `json:"total_price_after_discount,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CartID    uint   `gorm:"index;uniqueIndex:idx_cart_product_color" json:"cart_id"`
	ProductID uint   `gorm:"uniqueIndex:idx_cart_product_color" json:"product_id"`
	Color     string `gorm:"uniqueIndex:idx_cart_product_color" json:"color"`
	// Price is snapshotted when the line is first added; later catalog price
	// changes do not affect an existing line.
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	AddedAt  time.Time
}
