package models

import "time"

type Order struct {
	ID            uint      `gorm:"primaryKey;column:oid" json:"oid"`
	CustomerID    uint      `gorm:"not null;index" json:"customer_id"`
	Customer      Customer  `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TotalAmount   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status        string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentStatus *string   `gorm:"type:varchar(20)" json:"payment_status"`
	PaymentID     *string   `gorm:"type:varchar(100);index" json:"payment_id"`
	PaymentMethod *string   `gorm:"type:varchar(30)" json:"payment_method"`
	CreatedAt     time.Time `gorm:"column:odate;autoCreateTime" json:"odate"`
}

func (Order) TableName() string { return "orders" }

// OrderView -> denormalized order returned by the list endpoints
type OrderView struct {
	ID            uint            `gorm:"column:oid" json:"oid"`
	CustomerID    uint            `json:"customer_id"`
	TotalAmount   float64         `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentStatus *string         `json:"payment_status"`
	PaymentID     *string         `json:"payment_id"`
	PaymentMethod *string         `json:"payment_method"`
	CreatedAt     time.Time       `gorm:"column:odate" json:"odate"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `gorm:"column:customer_email" json:"email,omitempty"`
	CustomerPhone string          `gorm:"column:customer_phone" json:"phone,omitempty"`
	Items         []OrderLineView `gorm:"-" json:"items"`
}
