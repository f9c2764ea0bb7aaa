package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderRef string `gorm:"uniqueIndex" json:"order_ref"`
	UserID   string `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	// Line items and TotalOrderPrice are frozen at materialization time;
	// only the paid/delivered status fields change afterwards.
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalOrderPrice float64         `json:"total_order_price"`
	TaxPrice        float64         `json:"tax_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(10);default:'cash'" json:"payment_method"`
	IsPaid        bool          `json:"is_paid"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	IsDelivered   bool          `json:"is_delivered"`
	DeliveredAt   *time.Time    `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Color     string  `json:"color"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddress struct {
	Details    string `json:"details"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}
