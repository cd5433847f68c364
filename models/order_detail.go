package models

// OrderLine -> one (food item, quantity) row owned by exactly one order
type OrderLine struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"column:oid;not null;index" json:"oid"`
	Order      Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FoodItemID uint     `gorm:"column:fid;not null;index" json:"fid"`
	FoodItem   FoodItem `gorm:"foreignKey:FoodItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity   int      `gorm:"not null" json:"quantity"`
}

func (OrderLine) TableName() string { return "order_details" }

// OrderLineView -> order line joined with its food item
type OrderLineView struct {
	ID         uint    `json:"id"`
	OrderID    uint    `gorm:"column:oid" json:"oid"`
	FoodItemID uint    `gorm:"column:fid" json:"fid"`
	Quantity   int     `json:"quantity"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      *string `json:"image,omitempty"`
}
