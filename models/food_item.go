package models

type FoodItem struct {
	ID          uint    `gorm:"primaryKey;column:fid" json:"fid"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string  `gorm:"type:text" json:"description"`
	Image       *string `gorm:"type:varchar(255)" json:"image"`
	Category    string  `gorm:"type:varchar(100);index" json:"category"`
}

func (FoodItem) TableName() string { return "food_items" }
