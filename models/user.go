package models

import "time"

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
