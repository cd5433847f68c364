package models

type Feedback struct {
	ID         uint     `gorm:"primaryKey;column:feedback_id" json:"feedback_id"`
	Message    string   `gorm:"type:text;not null" json:"message"`
	Date       string   `gorm:"type:varchar(10);not null;index" json:"date"`
	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Feedback) TableName() string { return "feedback" }

type FeedbackView struct {
	ID            uint   `gorm:"column:feedback_id" json:"feedback_id"`
	Message       string `json:"message"`
	Date          string `json:"date"`
	CustomerID    uint   `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `gorm:"column:customer_email" json:"email"`
}
