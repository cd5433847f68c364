package models

type Booking struct {
	ID            uint     `gorm:"primaryKey;column:booking_id" json:"booking_id"`
	Date          string   `gorm:"type:varchar(10);not null;index" json:"date"`
	Time          string   `gorm:"type:varchar(8);not null" json:"time"`
	NoOfPeople    int      `gorm:"not null" json:"no_of_people"`
	CustomerID    uint     `gorm:"not null;index" json:"customer_id"`
	Customer      Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Status        string   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentStatus *string  `gorm:"type:varchar(20)" json:"payment_status"`
	PaymentID     *string  `gorm:"type:varchar(100);index" json:"payment_id"`
	PaymentMethod *string  `gorm:"type:varchar(30)" json:"payment_method"`
}

func (Booking) TableName() string { return "bookings" }

type BookingView struct {
	ID            uint    `gorm:"column:booking_id" json:"booking_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	NoOfPeople    int     `json:"no_of_people"`
	CustomerID    uint    `json:"customer_id"`
	Status        string  `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	PaymentID     *string `json:"payment_id"`
	PaymentMethod *string `json:"payment_method"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `gorm:"column:customer_email" json:"email"`
	CustomerPhone string  `gorm:"column:customer_phone" json:"phone"`
}
