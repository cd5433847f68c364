package models

import "time"

// Customer -> registered diner. Password holds the bcrypt hash and never leaves the server.
type Customer struct {
	ID        uint      `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// CustomerProfile -> public projection used by the customer directory
type CustomerProfile struct {
	ID    uint   `gorm:"column:customer_id" json:"customer_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
