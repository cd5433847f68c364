package models

import "time"

type Admin struct {
	ID        uint      `gorm:"primaryKey;column:admin_id" json:"admin_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Admin) TableName() string { return "admins" }
